package commands

import (
	"fmt"

	"github.com/mosaicnetworks/meshwire/src/protocol"
	"github.com/mosaicnetworks/meshwire/src/router"
	"github.com/mosaicnetworks/meshwire/src/variant"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewDecodeCmd returns the command that decodes one wire document, reports how
// the local node routes it, and prints the packet re-encoded.
func NewDecodeCmd(c *CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [document]",
		Short: "Decode a wire document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decode(cmd, c, []byte(args[0]))
		},
	}
}

func decode(cmd *cobra.Command, c *CLIConfig, data []byte) error {
	v, err := variant.DecodeLimit(data, c.Meshwire.MaxDocumentSize)
	if err != nil {
		return err
	}

	self := protocol.NodeID(c.Meshwire.NodeID)
	routing := v.Routing()
	action := router.Decide(routing, self, v.Dest())

	c.Meshwire.Logger().WithFields(logrus.Fields{
		"type":    v.Type(),
		"dest":    v.Dest(),
		"routing": routing,
		"handle":  action.Handle,
		"forward": action.Forward,
	}).Info("Decoded")

	p, err := v.Package()
	if err != nil {
		return err
	}

	return printPackage(cmd, c, p)
}

func printPackage(cmd *cobra.Command, c *CLIConfig, p protocol.Package) error {
	v, err := variant.New(p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := v.Print(out, c.Meshwire.Pretty); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}

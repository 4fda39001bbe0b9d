package commands

import (
	"github.com/mosaicnetworks/meshwire/src/protocol"
	"github.com/spf13/cobra"
)

// NewEncodeCmd returns the command that builds a packet from flags and prints
// its wire document.
func NewEncodeCmd(c *CLIConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a packet",
	}

	cmd.PersistentFlags().Uint32("from", 0, "Sending node")
	cmd.PersistentFlags().Uint32("dest", 0, "Destination node")

	cmd.AddCommand(
		newPayloadCmd(c, "single", func(from, dest protocol.NodeID, msg string) protocol.Package {
			return protocol.NewSingle(from, dest, msg)
		}),
		newPayloadCmd(c, "broadcast", func(from, dest protocol.NodeID, msg string) protocol.Package {
			return protocol.NewBroadcast(from, dest, msg)
		}),
		newTimeCmd(c, "timesync", func(e protocol.TimeExchange) protocol.Package {
			return protocol.TimeSync{TimeExchange: e}
		}),
		newTimeCmd(c, "timedelay", func(e protocol.TimeExchange) protocol.Package {
			return protocol.TimeDelay{TimeExchange: e}
		}),
		newNodeSyncCmd(c),
	)

	return cmd
}

func endpoints(cmd *cobra.Command) (protocol.NodeID, protocol.NodeID, error) {
	from, err := cmd.Flags().GetUint32("from")
	if err != nil {
		return 0, 0, err
	}
	dest, err := cmd.Flags().GetUint32("dest")
	if err != nil {
		return 0, 0, err
	}
	return protocol.NodeID(from), protocol.NodeID(dest), nil
}

func newPayloadCmd(c *CLIConfig,
	name string,
	build func(from, dest protocol.NodeID, msg string) protocol.Package) *cobra.Command {

	cmd := &cobra.Command{
		Use:   name,
		Short: "Encode a " + name + " packet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, dest, err := endpoints(cmd)
			if err != nil {
				return err
			}
			msg, err := cmd.Flags().GetString("msg")
			if err != nil {
				return err
			}
			return printPackage(cmd, c, build(from, dest, msg))
		},
	}

	cmd.Flags().StringP("msg", "m", "", "Application payload")

	return cmd
}

func newTimeCmd(c *CLIConfig,
	name string,
	build func(protocol.TimeExchange) protocol.Package) *cobra.Command {

	cmd := &cobra.Command{
		Use:   name,
		Short: "Encode a " + name + " packet at the given stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, dest, err := endpoints(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			stage, err := flags.GetInt("stage")
			if err != nil {
				return err
			}
			t0, _ := flags.GetUint32("t0")
			t1, _ := flags.GetUint32("t1")
			t2, _ := flags.GetUint32("t2")

			e := protocol.TimeExchange{
				From:  from,
				Dest:  dest,
				Stage: protocol.TimeStage(stage),
				T0:    t0,
				T1:    t1,
				T2:    t2,
			}

			return printPackage(cmd, c, build(e))
		},
	}

	cmd.Flags().Int("stage", int(protocol.TimeSyncRequest), "Exchange stage (0 request, 1 t0, 2 reply)")
	cmd.Flags().Uint32("t0", 0, "First timestamp")
	cmd.Flags().Uint32("t1", 0, "Second timestamp")
	cmd.Flags().Uint32("t2", 0, "Third timestamp")

	return cmd
}

func newNodeSyncCmd(c *CLIConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodesync",
		Short: "Encode a NodeSyncRequest or NodeSyncReply from child subtrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, dest, err := endpoints(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			reply, _ := flags.GetBool("reply")
			root, _ := flags.GetBool("root")
			docs, err := flags.GetStringArray("child")
			if err != nil {
				return err
			}

			children := make([]protocol.NodeTree, 0, len(docs))
			for _, d := range docs {
				var child protocol.NodeTree
				if err := child.Unmarshal([]byte(d)); err != nil {
					return err
				}
				children = append(children, child)
			}

			if reply {
				p := protocol.NewNodeSyncReply(from, dest, children, root)
				if err := p.Tree.Validate(); err != nil {
					return err
				}
				return printPackage(cmd, c, p)
			}

			p := protocol.NewNodeSyncRequest(from, dest, children, root)
			if err := p.Tree.Validate(); err != nil {
				return err
			}
			return printPackage(cmd, c, p)
		},
	}

	cmd.Flags().Bool("reply", false, "Encode a NodeSyncReply instead of a NodeSyncRequest")
	cmd.Flags().Bool("root", false, "The sending node is the root")
	cmd.Flags().StringArray("child", nil, `Child subtree as a JSON document, e.g. {"nodeId":2,"knownNodes":[3]}`)

	return cmd
}

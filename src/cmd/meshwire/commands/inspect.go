package commands

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mosaicnetworks/meshwire/src/inspect"
	"github.com/mosaicnetworks/meshwire/src/protocol"
	"github.com/mosaicnetworks/meshwire/src/service"
	"github.com/mosaicnetworks/meshwire/src/telemetry"
	"github.com/mosaicnetworks/meshwire/src/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// NewInspectCmd returns the command that runs a stream of newline-delimited
// wire documents through the routing decision of the local node and prints a
// summary.
func NewInspectCmd(c *CLIConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Inspect a stream of wire documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := c.Input
			if len(args) == 1 {
				input = args[0]
			}
			return runInspect(cmd, c, input)
		},
	}

	cmd.Flags().StringP("service-listen", "s", c.Meshwire.ServiceAddr, "Listen IP:Port for HTTP service")
	cmd.Flags().Bool("no-service", c.Meshwire.NoService, "Do not start the HTTP service")

	return cmd
}

func runInspect(cmd *cobra.Command, c *CLIConfig, input string) error {
	logger := c.Meshwire.Logger()

	var r io.Reader = os.Stdin
	if input != "-" && input != "" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := telemetry.NewMetrics(reg)
	if err != nil {
		return err
	}
	metrics.SetBuildInfo(version.Version, version.GitCommit)

	ins := inspect.NewInspector(
		protocol.NodeID(c.Meshwire.NodeID),
		c.Meshwire.MaxDocumentSize,
		metrics,
		logger.WithField("component", "inspect"),
	)

	if !c.Meshwire.NoService {
		srv := service.NewService(c.Meshwire.ServiceAddr, reg, ins.Stats, logger.WithField("component", "service"))
		go srv.Serve()
	}

	sum, err := ins.Process(r)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if c.Meshwire.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(sum)
}

package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd returns the meshwire command with all subcommands attached. Flags
// and config files are unmarshalled into c before any subcommand runs.
func NewRootCmd(c *CLIConfig) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:              "meshwire",
		Short:            "Encode, decode and inspect mesh wire documents",
		TraverseChildren: true,
		// Do not print usage when error occurs
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd, c)
		},
	}

	AddGlobalFlags(rootCmd, c)

	rootCmd.AddCommand(
		NewVersionCmd(),
		NewDecodeCmd(c),
		NewEncodeCmd(c),
		NewInspectCmd(c))

	return rootCmd
}

package main

import (
	"os"

	cmd "github.com/mosaicnetworks/meshwire/src/cmd/meshwire/commands"
)

func main() {
	rootCmd := cmd.NewRootCmd(cmd.NewDefaultCLIConfig())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package commands

import (
	"github.com/mosaicnetworks/meshwire/src/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig contains the configuration shared by all meshwire commands.
type CLIConfig struct {
	Meshwire config.Config `mapstructure:",squash"`

	// Input is read by the inspect command when no file argument is given.
	// "-" means stdin.
	Input string `mapstructure:"input"`
}

// NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Meshwire: *config.NewDefaultConfig(),
		Input:    "-",
	}
}

// AddGlobalFlags adds the flags every command understands.
func AddGlobalFlags(cmd *cobra.Command, c *CLIConfig) {
	cmd.PersistentFlags().StringP("datadir", "d", c.Meshwire.DataDir, "Directory searched for meshwire.toml (.json, .yaml also work)")
	cmd.PersistentFlags().String("log", c.Meshwire.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.PersistentFlags().String("log-file", c.Meshwire.LogFile, "Also write JSON log entries to this file")
	cmd.PersistentFlags().Uint32P("node-id", "n", c.Meshwire.NodeID, "Id of the local node")
	cmd.PersistentFlags().Int("max-doc", c.Meshwire.MaxDocumentSize, "Max size of a single wire document in bytes")
	cmd.PersistentFlags().Bool("pretty", c.Meshwire.Pretty, "Indent printed documents")
}

func loadConfig(v *viper.Viper, cmd *cobra.Command, c *CLIConfig) error {
	configFile, err := bindFlagsLoadViper(v, cmd, c)
	if err != nil {
		return err
	}

	logger := c.Meshwire.Logger()

	if configFile != "" {
		logger.Debugf("Using config file: %s", configFile)
	} else {
		logger.Debugf("No config file found in: %s", c.Meshwire.DataDir)
	}

	logger.WithFields(logrus.Fields{
		"meshwire.DataDir":         c.Meshwire.DataDir,
		"meshwire.LogLevel":        c.Meshwire.LogLevel,
		"meshwire.LogFile":         c.Meshwire.LogFile,
		"meshwire.NodeID":          c.Meshwire.NodeID,
		"meshwire.MaxDocumentSize": c.Meshwire.MaxDocumentSize,
		"meshwire.Pretty":          c.Meshwire.Pretty,
		"meshwire.ServiceAddr":     c.Meshwire.ServiceAddr,
		"meshwire.NoService":       c.Meshwire.NoService,
		"Input":                    c.Input,
	}).Debug(cmd.Name())

	return nil
}

// Bind all flags and read the config into viper. The logger is not touched
// before the second unmarshal so that log settings from the config file apply.
func bindFlagsLoadViper(v *viper.Viper, cmd *cobra.Command, c *CLIConfig) (string, error) {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return "", err
	}

	// first unmarshal to read from CLI flags
	if err := v.Unmarshal(c); err != nil {
		return "", err
	}

	// look for config file in [datadir]/meshwire.toml (.json, .yaml also work)
	v.SetConfigName("meshwire")
	v.AddConfigPath(c.Meshwire.DataDir)

	configFile := ""
	if err := v.ReadInConfig(); err == nil {
		configFile = v.ConfigFileUsed()
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return "", err
	}

	// second unmarshal to read from config file
	return configFile, v.Unmarshal(c)
}

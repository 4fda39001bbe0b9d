package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mosaicnetworks/meshwire/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default configuration values.
const (
	DefaultLogLevel        = "info"
	DefaultLogFile         = ""
	DefaultNodeID          = 0
	DefaultMaxDocumentSize = 64 * 1024
	DefaultPretty          = false
	DefaultServiceAddr     = "127.0.0.1:8000"
	DefaultNoService       = true
)

// Config contains all the configuration properties of the meshwire tools.
type Config struct {
	// DataDir is the directory searched for a meshwire config file.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, when set, receives a copy of every log entry.
	LogFile string `mapstructure:"log-file"`

	// NodeID is the id of the node on whose behalf packets are inspected. It
	// decides whether a Single packet is handled or forwarded.
	NodeID uint32 `mapstructure:"node-id"`

	// MaxDocumentSize caps the length of a single wire document. Longer
	// documents are rejected before parsing.
	MaxDocumentSize int `mapstructure:"max-doc"`

	// Pretty selects indented output when printing documents.
	Pretty bool `mapstructure:"pretty"`

	// ServiceAddr is the address:port of the HTTP service exposing /metrics
	// and /stats.
	ServiceAddr string `mapstructure:"service-listen"`

	// NoService disables the HTTP service.
	NoService bool `mapstructure:"no-service"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:         DefaultDataDir(),
		LogLevel:        DefaultLogLevel,
		LogFile:         DefaultLogFile,
		NodeID:          DefaultNodeID,
		MaxDocumentSize: DefaultMaxDocumentSize,
		Pretty:          DefaultPretty,
		ServiceAddr:     DefaultServiceAddr,
		NoService:       DefaultNoService,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// Logger returns a formatted logrus Entry, with prefix set to "meshwire".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
		if c.LogFile != "" {
			c.logger.AddHook(lfshook.NewHook(c.LogFile, &logrus.JSONFormatter{}))
		}
	}
	return c.logger.WithField("prefix", "meshwire")
}

// DefaultDataDir return the default directory name for the meshwire config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Meshwire")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Meshwire")
		} else {
			return filepath.Join(home, ".meshwire")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}

// Package config defines the configuration of the meshwire tools.
//
// The wire protocol packages take no configuration; they are pure functions
// of their inputs. The Config object in this package drives the pieces built
// around them: the packet inspector, the HTTP service exposing its counters,
// and the meshwire command line. The command line fills it from flags and
// from an optional meshwire.toml (or .yaml, .json) file in Config.DataDir.
package config

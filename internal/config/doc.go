// Package config loads the log-watcher process configuration.
//
// Configuration resolves in three layers: built-in defaults, an optional
// JSON or YAML file (chosen by extension), and LOGWATCHER_* environment
// variables, each overlaying the previous one.
package config

// Package log provides the structured logging facade used across the
// log-watcher.
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Records flow through a Formatter (text
// or JSON) into one or more Outputs. Components obtain a tagged child logger
// via WithComponent and pass loggers explicitly; there is no process-global
// logger.
//
// Quick start:
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("registry")
//	l.Info("service registered", log.Str("service", name))
//
// Use ApplyConfig to build a logger from a declarative Config (level and
// format strings, typically sourced from the environment).
package log

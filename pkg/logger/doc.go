// Package logger provides the structured logging interface used across hypedump.
//
// It wraps zerolog behind a small Logger interface. There is no process-wide
// logger: the CLI builds one from config.LoggingConfig and hands it to each
// component, which falls back to Nop when given nil.
//
//	log, err := logger.New(&cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	log.WithField("username", "popular").Info("Working on page 1")
//
// NewTestLogger captures messages in memory for assertions in tests.
package logger

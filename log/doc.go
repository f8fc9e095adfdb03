// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatConsole], [FormatLogfmt], and
// [FormatJSON]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// and [LevelDebug]). The default [FormatAuto] picks the console format when
// the writer is a terminal and logfmt otherwise. Use [NewHandler] to create
// a handler directly, or use [Config] with CLI flag integration via
// [github.com/spf13/pflag] and shell completion support via
// [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// A [Publisher] tees handler output to subscribers. The editor daemon
// writes its handler through one so HTTP clients can tail the live log:
//
//	pub := log.NewPublisher()
//	handler, err := cfg.NewHandler(io.MultiWriter(os.Stderr, pub))
//
//	sub := pub.Subscribe()
//	defer sub.Close()
//
//	for entry := range sub.C() {
//	    // Stream entry to the client.
//	}
package log

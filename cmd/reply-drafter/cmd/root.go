// Package cmd implements the reply-drafter command line.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hal9000y/gmail-reply-drafter/internal/config"
)

var (
	cfgFile string
	envFile string
	logFile string

	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "reply-drafter",
	Short: "Draft business email replies into Gmail threads",
	Long: `reply-drafter reads the latest message of a conversation, asks a chat
completion model for a reply in the chosen stance, and saves the result as a
draft threaded under the conversation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(logFile, logOutput(cmd))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.toml", "Path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to env file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file, stderr when empty")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load failed: %w", err)
	}

	return cfg, nil
}

// logOutput is where logs go without --log-file. The stdio MCP transport
// discards them.
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd == serveCmd && serveStdio {
		return io.Discard
	}
	return os.Stderr
}

// setupLogger sends the standard logger to logFile, or to fallback when unset.
func setupLogger(logFile string, fallback io.Writer) error {
	closeLog()
	closeLog = func() {}

	if logFile == "" {
		log.SetOutput(fallback)
		return nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)

	closeLog = func() {
		log.SetOutput(os.Stderr)
		if err := f.Close(); err != nil {
			log.Println(fmt.Errorf("f.Close failed: %w", err))
		}
	}

	return nil
}

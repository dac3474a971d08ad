package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/config"
	"github.com/Sujal861/Omi-Mentor/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version = "dev"
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var rootCmd = &cobra.Command{
	Use:   "omictl",
	Short: "Manage the Google Fit connection and health alerts",
	Long: `omictl talks to Google Fit with the tokens the server stores.

Quick Start:
  omictl connect        # authorize Google Fit in the browser
  omictl status         # show the connection state
  omictl snapshot       # fetch today's fitness snapshot
  omictl assess         # evaluate the snapshot against alert thresholds
  omictl alert          # send a health alert email`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// withCore opens the shared components for one command and closes them after.
func withCore(fn func(ctx context.Context, c *core.Core) error) error {
	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := internal.NewLogger("development", level)
	if err != nil {
		return err
	}
	c, err := core.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Close(ctx)
	}()
	return fn(context.Background(), c)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func field(label string, value interface{}) {
	fmt.Printf("%s %v\n", labelStyle.Render(label+":"), value)
}

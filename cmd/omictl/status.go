package main

import (
	"context"
	"fmt"

	"github.com/Sujal861/Omi-Mentor/internal/core"
	"github.com/spf13/cobra"
)

var statusVerify bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Google Fit connection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			connected := c.Conn.IsConnected(ctx)
			if statusVerify && connected {
				connected = c.Conn.Verify(ctx)
			}
			if connected {
				fmt.Println(okStyle.Render("connected"))
			} else {
				fmt.Println(warnStyle.Render("disconnected"))
			}
			field("state", c.Conn.State())
			return nil
		})
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the stored Google Fit tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			if err := c.Conn.Disconnect(ctx); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Disconnected from Google Fit"))
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusVerify, "verify", false, "Check the access token with Google, refreshing it if needed")
	rootCmd.AddCommand(statusCmd, disconnectCmd)
}

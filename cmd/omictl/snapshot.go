package main

import (
	"context"
	"fmt"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/core"
	"github.com/Sujal861/Omi-Mentor/internal/health"
	"github.com/Sujal861/Omi-Mentor/internal/service"
	"github.com/spf13/cobra"
)

var snapshotJSON bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch today's fitness snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			snap, err := c.Refresher.Manual(ctx)
			if err != nil {
				return err
			}
			if snapshotJSON {
				return printJSON(snap)
			}
			printSnapshot(snap)
			return nil
		})
	},
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Fetch a snapshot and evaluate it against the alert thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			snap, err := c.Refresher.Manual(ctx)
			if err != nil {
				return err
			}
			a := health.Evaluate(snap)
			if snapshotJSON {
				return printJSON(a)
			}
			if a.HasIssue {
				fmt.Println(warnStyle.Render("attention needed"))
				fmt.Println(a.Message)
			} else {
				fmt.Println(okStyle.Render("all metrics within range"))
			}
			return nil
		})
	},
}

var (
	alertEmail   string
	alertMessage string
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Send a health alert email",
	Long: `Send a health alert. Without --message the current assessment is used,
which needs a fresh snapshot; without --email the alert goes to OWNER_EMAIL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			req := &service.AlertRequest{Email: alertEmail, Message: alertMessage}
			if err := service.ValidateAlertRequest(req); err != nil {
				return err
			}
			var snap *internal.FitnessSnapshot
			if req.Message == "" {
				s, err := c.Refresher.Manual(ctx)
				if err != nil {
					return err
				}
				snap = s
			}
			res, err := service.SendAlert(ctx, c.Dispatcher(), c.Owner(), req, snap)
			if err != nil {
				return err
			}
			if !res.Sent {
				return fmt.Errorf("alert to %s was not sent", res.Email)
			}
			fmt.Println(okStyle.Render("Alert sent to " + res.Email))
			return nil
		})
	},
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "Print JSON")
	assessCmd.Flags().BoolVar(&snapshotJSON, "json", false, "Print JSON")
	alertCmd.Flags().StringVar(&alertEmail, "email", "", "Recipient (defaults to OWNER_EMAIL)")
	alertCmd.Flags().StringVar(&alertMessage, "message", "", "Alert text (defaults to the current assessment)")
	rootCmd.AddCommand(snapshotCmd, assessCmd, alertCmd)
}

func printSnapshot(s *internal.FitnessSnapshot) {
	field("steps", fmt.Sprintf("%d (%s)", s.Steps, s.Provenance.Steps))
	field("calories", fmt.Sprintf("%.0f (%s)", s.CaloriesBurned, s.Provenance.Calories))
	field("active minutes", s.ActiveMinutes)
	field("distance km", s.Distance)
	field("heart rate", fmt.Sprintf("%d now, %d resting, %d max", s.HeartRate.Current, s.HeartRate.Resting, s.HeartRate.Max))
	field("sleep", fmt.Sprintf("%.1fh %s, %.1fh deep", s.SleepData.Duration, s.SleepData.Quality, s.SleepData.DeepSleep))
	field("updated", s.LastUpdated.Local().Format("2006-01-02 15:04:05"))
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportSend     bool
	reportSnapshot bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the weekly report, optionally sending it or archiving a snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		ctx := cmd.Context()
		reporting := a.reporting(a.engine)

		if reportSnapshot {
			snap, err := reporting.BuildSnapshot(ctx)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			var errs []error
			for _, sink := range a.snapshotSinks(ctx) {
				if err := sink.Save(ctx, snap); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
				}
			}
			return errors.Join(errs...)
		}

		text, err := reporting.WeeklyReport(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)

		if reportSend {
			sender := a.reportSender()
			if sender == nil {
				return errors.New("whatsapp is not configured")
			}
			return sender.SendReport(ctx, text)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportSend, "send", false, "Send the weekly report over WhatsApp")
	reportCmd.Flags().BoolVar(&reportSnapshot, "snapshot", false, "Build today's snapshot and store it in the configured archives")
}

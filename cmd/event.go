package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/frahmantamala/budget-ledger/internal/cli"
	"github.com/frahmantamala/budget-ledger/internal/core/events"
	"github.com/frahmantamala/budget-ledger/internal/expense"
	"github.com/frahmantamala/budget-ledger/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event inspection commands",
	Long:  `Inspect the events a ledger session publishes`,
}

var replayEventCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a CSV of expenses through a session and print its events",
	Long: `Open a session, add every name,amount,category line from --file or stdin
and print each published event as one JSON object per line.`,
	RunE: runReplay,
}

var replayFile string

func runReplay(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	ceiling, err := cfg.Budget.CeilingAmount()
	if err != nil {
		return err
	}

	log := logger.Discard()
	out := json.NewEncoder(cmd.OutOrStdout())

	bus := events.NewEventBus(log)
	// the bus only logs handler errors, so keep the first write failure
	var writeErr error
	bus.Subscribe(events.AllEvents, func(_ context.Context, event events.Event) error {
		if writeErr != nil {
			return writeErr
		}
		writeErr = out.Encode(map[string]any{
			"id":          event.EventID(),
			"type":        event.EventType(),
			"occurred_at": event.OccurredAt(),
			"payload":     event.Payload(),
		})
		return writeErr
	})

	svc, err := expense.NewService(ceiling, cfg.Session, bus, log, expense.WithCurrency(cfg.Budget.Currency))
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if replayFile != "" {
		f, err := os.Open(replayFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", replayFile, err)
		}
		defer f.Close()
		in = f
	}

	sess, err := svc.StartSession()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = cli.ReadRecords(in, func(rec cli.Record) error {
		// rejections are published as events too
		_, _ = svc.AddExpense(ctx, sess.SessionID, expense.CreateExpenseDTO{
			Name:     rec.Name,
			Amount:   expense.AmountText(rec.Amount),
			Category: rec.Category,
		})
		return nil
	})
	if err != nil {
		return err
	}

	if err := svc.EndSession(ctx, sess.SessionID); err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("failed to write events: %w", writeErr)
	}
	return nil
}

func init() {
	replayEventCmd.Flags().StringVarP(&replayFile, "file", "f", "", "CSV file to replay (default stdin)")

	eventCmd.AddCommand(replayEventCmd)

	rootCmd.AddCommand(eventCmd)
}

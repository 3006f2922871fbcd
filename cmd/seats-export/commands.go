package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/seats-client/pkg/pagination"
	"github.com/Sternrassler/seats-client/pkg/seats"
)

// eventStatusChange is one output line of the status-changes command.
type eventStatusChange struct {
	EventKey string `json:"eventKey"`
	seats.StatusChange
}

// run wraps a subcommand body with session setup and teardown.
func run(opts *options, out io.Writer, body func(ctx context.Context, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := opts.connect(ctx, out)
		if err != nil {
			return err
		}
		defer s.close()
		return body(ctx, s, args)
	}
}

// writeLines encodes each item of seq as one JSON line, stopping after limit
// items when limit > 0.
func writeLines[T any](out io.Writer, seq iter.Seq2[T, error], limit int) (int, error) {
	if limit > 0 {
		seq = pagination.Take(seq, limit)
	}
	enc := json.NewEncoder(out)
	written := 0
	for item, err := range seq {
		if err != nil {
			return written, err
		}
		if err := enc.Encode(item); err != nil {
			return written, fmt.Errorf("write output: %w", err)
		}
		written++
	}
	return written, nil
}

func newStatusChangesCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "status-changes EVENT_KEY...",
		Short: "Export the status change log of one or more events",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(opts, out, func(ctx context.Context, s *session, eventKeys []string) error {
			sources := make([]pagination.Source[eventStatusChange], 0, len(eventKeys))
			for _, key := range eventKeys {
				sources = append(sources, statusChangeSource(s, key))
			}

			// Sources apply --limit themselves
			if len(sources) == 1 {
				_, err := writeLines(s.out, sources[0].Open(ctx), 0)
				return err
			}

			cfg := pagination.DefaultCollectConfig()
			if s.opts.concurrency > 0 {
				cfg.MaxConcurrency = s.opts.concurrency
			}
			results, collectErr := pagination.CollectAll(ctx, cfg, sources)

			// Partial results are still written, in argument order
			enc := json.NewEncoder(s.out)
			for _, key := range eventKeys {
				for _, change := range results[key] {
					if err := enc.Encode(change); err != nil {
						return fmt.Errorf("write output: %w", err)
					}
				}
			}
			return collectErr
		}),
	}
}

func statusChangeSource(s *session, eventKey string) pagination.Source[eventStatusChange] {
	return pagination.Source[eventStatusChange]{
		Name: eventKey,
		Open: func(ctx context.Context) iter.Seq2[eventStatusChange, error] {
			seq := s.client.Events.StatusChanges(ctx, eventKey, s.params)
			if s.opts.limit > 0 {
				seq = pagination.Take(seq, s.opts.limit)
			}
			return func(yield func(eventStatusChange, error) bool) {
				for change, err := range seq {
					if !yield(eventStatusChange{EventKey: eventKey, StatusChange: change}, err) {
						return
					}
				}
			}
		},
	}
}

func newArchivedChartsCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "archived-charts",
		Short: "Export the chart archive",
		Args:  cobra.NoArgs,
		RunE: run(opts, out, func(ctx context.Context, s *session, _ []string) error {
			n, err := writeLines(s.out, s.client.Charts.Archive(ctx, s.params), s.opts.limit)
			log.Debug().Int("items", n).Str("resource", seats.ArchiveResource.Name).Msg("Export finished")
			return err
		}),
	}
}

func newSubaccountsCommand(opts *options, out io.Writer) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "subaccounts",
		Short: "Export subaccounts",
		Args:  cobra.NoArgs,
		RunE: run(opts, out, func(ctx context.Context, s *session, _ []string) error {
			var seq iter.Seq2[seats.Subaccount, error]
			switch status {
			case "all":
				seq = s.client.Subaccounts.List(ctx, s.params)
			case "active":
				seq = s.client.Subaccounts.Active(ctx, s.params)
			case "inactive":
				seq = s.client.Subaccounts.Inactive(ctx, s.params)
			default:
				return fmt.Errorf("%w: unknown status %q (want all, active or inactive)", pagination.ErrInvalidParameters, status)
			}
			_, err := writeLines(s.out, seq, s.opts.limit)
			return err
		}),
	}

	cmd.Flags().StringVar(&status, "status", "all", "which subaccounts: all, active or inactive")
	return cmd
}

func newWorkspacesCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces",
		Short: "Export workspaces",
		Args:  cobra.NoArgs,
		RunE: run(opts, out, func(ctx context.Context, s *session, _ []string) error {
			_, err := writeLines(s.out, s.client.Workspaces.List(ctx, s.params), s.opts.limit)
			return err
		}),
	}
}

// Command seats-export streams paginated seating API collections as JSON lines.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/seats-client/pkg/config"
	"github.com/Sternrassler/seats-client/pkg/logging"
	"github.com/Sternrassler/seats-client/pkg/metrics"
	"github.com/Sternrassler/seats-client/pkg/pagination"
	"github.com/Sternrassler/seats-client/pkg/seats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	configFile  string
	filter      string
	sort        string
	pageSize    int
	limit       int
	concurrency int
	metricsAddr string
}

func (o *options) params() (pagination.Params, error) {
	mode, err := pagination.ParseSortMode(o.sort)
	if err != nil {
		return pagination.Params{}, err
	}
	params := pagination.Params{}.SortBy(mode).WithFilter(o.filter)
	if o.pageSize != 0 {
		params = params.WithPageSize(o.pageSize)
	}
	return params, params.Validate()
}

// session is what a subcommand runs against.
type session struct {
	client *seats.Client
	params pagination.Params
	out    io.Writer
	opts   *options
	close  func()
}

// connect loads configuration, sets up logging and metrics, and builds the
// client.
func (o *options) connect(ctx context.Context, out io.Writer) (*session, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.Logging())

	params, err := o.params()
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if redisClient = cfg.RedisClient(); redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Debug().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	}

	client, err := seats.New(cfg.ClientConfig(redisClient))
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, err
	}

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	if o.metricsAddr != "" {
		go func() {
			if err := metrics.Serve(metricsCtx, o.metricsAddr); err != nil {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	return &session{
		client: client,
		params: params,
		out:    out,
		opts:   o,
		close: func() {
			stopMetrics()
			client.Close()
			if redisClient != nil {
				redisClient.Close()
			}
		},
	}, nil
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "seats-export",
		Short:        "Export seating API collections as JSON lines",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file path (settings also come from .env and SEATS_* variables)")
	flags.StringVar(&opts.filter, "filter", "", "only items whose label or name contains this text")
	flags.StringVar(&opts.sort, "sort", "", "sort order: label, status or date-asc")
	flags.IntVar(&opts.pageSize, "page-size", 0, "items per request (0 uses the server default)")
	flags.IntVar(&opts.limit, "limit", 0, "stop after this many items per collection (0 reads everything)")
	flags.IntVar(&opts.concurrency, "concurrency", pagination.DefaultCollectConfig().MaxConcurrency, "parallel traversals when exporting several events")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while exporting")

	cmd.AddCommand(
		newStatusChangesCommand(opts, out),
		newArchivedChartsCommand(opts, out),
		newSubaccountsCommand(opts, out),
		newWorkspacesCommand(opts, out),
	)

	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/guard/core/config"
	"github.com/dmitrymomot/guard/core/health"
	"github.com/dmitrymomot/guard/integration/database/pg"
	"github.com/dmitrymomot/guard/integration/database/redis"
	natsint "github.com/dmitrymomot/guard/integration/messaging/nats"
)

func (c *cli) healthCmd() *cobra.Command {
	var (
		withRedis bool
		withPG    bool
		withNATS  bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check connectivity of the configured backends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !withRedis && !withPG && !withNATS {
				return errors.New("select at least one of --redis, --pg, --nats")
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			var checks []health.Check

			if withRedis {
				var cfg redis.Config
				if err := config.Load(&cfg); err != nil {
					return err
				}
				cfg.RetryAttempts = 1
				client, err := redis.Connect(ctx, cfg)
				if err != nil {
					checks = append(checks, health.Named("redis", failed(err)))
				} else {
					defer func() { _ = client.Close() }()
					checks = append(checks, health.Named("redis", redis.Healthcheck(client)))
				}
			}

			if withPG {
				var cfg pg.Config
				if err := config.Load(&cfg); err != nil {
					return err
				}
				cfg.RetryAttempts = 1
				pool, err := pg.Connect(ctx, cfg)
				if err != nil {
					checks = append(checks, health.Named("postgres", failed(err)))
				} else {
					defer pool.Close()
					checks = append(checks, health.Named("postgres", pg.Healthcheck(pool)))
				}
			}

			if withNATS {
				var cfg natsint.Config
				if err := config.Load(&cfg); err != nil {
					return err
				}
				nc, err := natsint.Connect(cfg)
				if err != nil {
					checks = append(checks, health.Named("nats", failed(err)))
				} else {
					defer nc.Close()
					checks = append(checks, health.Named("nats", natsint.Healthcheck(nc)))
				}
			}

			report := health.Readiness(ctx, c.logger, checks...)
			out := cmd.OutOrStdout()
			for _, res := range report.Results {
				if res.Err != nil {
					fmt.Fprintf(out, "%s %-8s %v\n", red("✗"), res.Name, res.Err)
					continue
				}
				fmt.Fprintf(out, "%s %-8s %s\n", green("✓"), res.Name, res.Duration.Round(time.Millisecond))
			}
			fmt.Fprintln(out, report.Status())
			return report.Err()
		},
	}

	cmd.Flags().BoolVar(&withRedis, "redis", false, "check Redis (REDIS_* variables)")
	cmd.Flags().BoolVar(&withPG, "pg", false, "check PostgreSQL (PG_* variables)")
	cmd.Flags().BoolVar(&withNATS, "nats", false, "check NATS (NATS_* variables)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "overall check timeout")
	return cmd
}

// failed turns a connection error into a check that reports it.
func failed(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

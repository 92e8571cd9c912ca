package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/guard/core/config"
	"github.com/dmitrymomot/guard/integration/database/pg"
	natsint "github.com/dmitrymomot/guard/integration/messaging/nats"
	"github.com/dmitrymomot/guard/pkg/apiclient"
)

type requestFlags struct {
	vault      vaultFlags
	useVault   bool
	baseURL    string
	data       string
	headers    []string
	authToken  string
	noSign     bool
	toNATS     bool
	toPG       bool
	metrics    bool
	flushAfter time.Duration
}

func (c *cli) requestCmd() *cobra.Command {
	var f requestFlags

	cmd := &cobra.Command{
		Use:   "request METHOD URL",
		Short: "Send a request through the secure API client",
		Long: `Send one request through the client pipeline: transport check, rate
limit, stored auth and CSRF headers, timestamp, signature, body escaping,
then response checks.

Client settings come from GUARD_* environment variables (a .env file is
honoured). With --vault, tokens are kept in the vault between runs.
Incidents are logged and can also be published to NATS (NATS_* variables)
or stored in PostgreSQL (PG_* variables).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRequest(cmd, f, strings.ToUpper(args[0]), args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.baseURL, "base-url", "", "override GUARD_API_BASE_URL")
	flags.StringVarP(&f.data, "data", "d", "", "JSON request body")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "extra header as 'Name: value'")
	flags.StringVar(&f.authToken, "auth-token", "", "store this bearer token before sending")
	flags.BoolVar(&f.noSign, "no-sign", false, "do not sign the request")
	flags.BoolVar(&f.useVault, "vault", false, "keep tokens in the vault")
	flags.StringVar(&f.vault.file, "vault-file", defaultVaultFile, "vault file")
	flags.StringVar(&f.vault.keyEnv, "key-env", defaultKeyEnv, "environment variable holding the vault key")
	flags.BoolVar(&f.toNATS, "nats", false, "publish incidents to NATS")
	flags.BoolVar(&f.toPG, "pg", false, "store incidents in PostgreSQL")
	flags.BoolVar(&f.metrics, "metrics", false, "print client metrics after the request")
	flags.DurationVar(&f.flushAfter, "flush-timeout", 5*time.Second, "how long to wait for incident delivery")
	return cmd
}

func (c *cli) runRequest(cmd *cobra.Command, f requestFlags, method, target string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var cfg apiclient.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.noSign {
		cfg.SignRequests = false
	}

	reg := prometheus.NewRegistry()
	opts := []apiclient.Option{
		apiclient.WithLogger(c.logger),
		apiclient.WithMetrics(apiclient.NewMetrics("guard", reg)),
	}

	sinks, closeSinks, err := c.incidentSinks(ctx, f)
	if err != nil {
		return err
	}
	defer closeSinks()
	opts = append(opts, apiclient.WithIncidentSink(sinks))

	if f.useVault {
		v, err := c.openVault(ctx, f.vault)
		if err != nil {
			return err
		}
		defer func() { _ = v.close() }()
		opts = append(opts, apiclient.WithStorage(v.storage))
	}

	client, err := apiclient.New(cfg, opts...)
	if err != nil {
		return err
	}
	if f.authToken != "" && !client.SetAuthToken(ctx, f.authToken) {
		return errors.New("auth token was not stored")
	}

	var body any
	if f.data != "" {
		if err := json.Unmarshal([]byte(f.data), &body); err != nil {
			return fmt.Errorf("parse --data: %w", err)
		}
	}

	req := apiclient.NewRequest(method, target, body)
	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("malformed header %q, want 'Name: value'", h)
		}
		req.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	resp, reqErr := client.Do(ctx, req)
	if resp != nil {
		printResponse(out, resp)
	}

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.flushAfter)
	defer cancel()
	if err := client.Flush(flushCtx); err != nil {
		c.logger.Warn("incident delivery did not finish", "error", err)
	}

	if f.metrics {
		printMetrics(out, reg)
	}

	if reqErr != nil {
		var apiErr *apiclient.Error
		if errors.As(reqErr, &apiErr) {
			fmt.Fprintf(out, "%s %s (%s)\n", red("✗"), apiErr.Message, yellow(apiErr.Code))
		} else {
			fmt.Fprintf(out, "%s %v\n", red("✗"), reqErr)
		}
		return reqErr
	}
	return nil
}

func (c *cli) incidentSinks(ctx context.Context, f requestFlags) (_ apiclient.MultiSink, _ func(), err error) {
	sinks := apiclient.MultiSink{apiclient.NewLogSink(c.logger)}
	var closers []func()
	closeAll := func() {
		for _, fn := range slices.Backward(closers) {
			fn()
		}
	}
	defer func() {
		if err != nil {
			closeAll()
		}
	}()

	if f.toNATS {
		var cfg natsint.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		nc, err := natsint.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = nc.Drain() })

		pub, err := natsint.NewIncidentPublisher(nc, cfg.Subject)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, pub)
	}

	if f.toPG {
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)

		store, err := pg.NewIncidentStore(pool, cfg.IncidentTable)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, store)
	}

	return sinks, closeAll, nil
}

func printResponse(out io.Writer, resp *apiclient.Response) {
	status := fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status))
	if resp.Status < 400 {
		status = green(status)
	} else {
		status = red(status)
	}
	fmt.Fprintln(out, status)
	if len(resp.Body) > 0 {
		fmt.Fprintln(out, string(resp.Body))
	}
}

// printMetrics writes every non-zero counter sample as name{labels} value.
func printMetrics(out io.Writer, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			if value == 0 {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			fmt.Fprintf(out, "%s{%s} %g\n", cyan(mf.GetName()), strings.Join(labels, ","), value)
		}
	}
}

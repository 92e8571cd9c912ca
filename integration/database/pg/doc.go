// Package pg connects to PostgreSQL with pgx and stores API client security
// incidents in a table.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	incidents, err := pg.NewIncidentStore(pool, cfg.IncidentTable)
//	if err != nil {
//		return err
//	}
//	if err := incidents.EnsureSchema(ctx); err != nil {
//		return err
//	}
//
//	client, err := apiclient.New(apiCfg, apiclient.WithIncidentSink(incidents))
//
// Connect retries the initial ping with a growing delay. Healthcheck wraps a
// ping for readiness checks.
//
// A context carrying a transaction from WithTx routes IncidentStore writes
// through that transaction, so an incident can be committed together with
// other application writes.
package pg

// Package health runs named dependency checks and reports readiness.
//
//	report := health.Readiness(ctx, log,
//		health.Named("redis", redis.Healthcheck(client)),
//		health.Named("postgres", pg.Healthcheck(pool)),
//	)
//	if !report.Ready() {
//		return report.Err()
//	}
//
// Checks follow the func(context.Context) error signature used by the
// integration packages.
package health

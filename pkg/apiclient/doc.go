// Package apiclient sends JSON API requests through an ordered pipeline of
// client-side security stages.
//
// Every request passes these stages, in order, before reaching the network:
//
//  1. transport_security: absolute URL required; https required in production
//  2. rate_limit: at most Config.RateLimitMax requests per METHOD:URL per window
//  3. auth: Authorization: Bearer <auth_token> when a token is stored
//  4. csrf: X-CSRF-Token when a token is stored
//  5. timestamp: X-Timestamp in epoch milliseconds
//  6. signature: X-Signature over body and timestamp, when a body is present
//  7. sanitize_body: markup escaping of every string in the body
//
// Successful responses are checked for a non-empty body, scanned for script
// injection markers (logged, never blocked) and checked for hardening headers.
//
// Error statuses are classified into *Error values:
//
//	401  tokens cleared, Navigator sent to Config.LoginPath, ErrAuthExpired
//	403  FORBIDDEN_ACCESS incident, ErrForbidden
//	429  RATE_LIMIT_EXCEEDED incident, ErrThrottled
//	else ErrHTTP with the server's "message" or "error" field
//
// Incidents are delivered in the background to the configured IncidentSink.
// Delivery failures are logged at debug level and otherwise ignored.
//
// # Usage
//
//	var cfg apiclient.Config
//	config.MustLoad(&cfg)
//
//	client, err := apiclient.New(cfg,
//		apiclient.WithStorage(vault),
//		apiclient.WithNavigator(nav),
//		apiclient.WithIncidentSink(apiclient.MultiSink{natsSink, pgSink}),
//	)
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.Post(ctx, "/payments", payment)
//	switch {
//	case errors.Is(err, apiclient.ErrRateLimited):
//		// refused locally, nothing was sent
//	case errors.Is(err, apiclient.ErrNetwork):
//		// no response
//	case err != nil:
//		var apiErr *apiclient.Error
//		errors.As(err, &apiErr)
//	}
//
// The signature is a tamper-evidence placeholder computed with a public
// algorithm. It does not authenticate the client. It is computed before
// sanitize_body, so a server verifying it must re-derive the unsanitized
// body, for example by unescaping the markup entities of every string.
package apiclient

// Package form is a headless form controller: per-field sanitization and
// validation state plus a gated submission flow.
//
//	f := form.New(
//		map[string]string{"email": "", "amount": ""},
//		map[string]validator.Rule{
//			"email":  {Required: true, Type: validator.TypeEmail},
//			"amount": {Required: true, Type: validator.TypeAmount},
//		},
//		func(ctx context.Context, values map[string]string) error {
//			_, err := client.Post(ctx, "/payments", values)
//			return err
//		},
//		form.WithRateLimiter(limiter, "payment-form", ratelimiter.Limit{MaxAttempts: 3, Window: time.Minute}),
//	)
//
//	f.Field("amount").OnChange("49.999")
//	if !f.Submit(ctx) {
//		fmt.Println(f.Errors(), f.SubmitError())
//	}
//
// Values are sanitized on input and submitted as strings exactly as stored.
// Validators only decide pass or fail; they never rewrite a value.
package form

// Package config loads environment variables into tagged structs with
// caarlos0/env. A .env file is read on first use when present, and each
// struct type is parsed once and cached, so later calls with the same type
// return the first result.
//
//	var cfg apiclient.Config
//	config.MustLoad(&cfg) // GUARD_API_BASE_URL, GUARD_SIGN_REQUESTS, ...
//
//	client, err := apiclient.New(cfg)
//
// Load returns the parse error instead of panicking.
package config

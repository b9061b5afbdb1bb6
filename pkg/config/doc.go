// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Configuration structs declare their variables through `env` field tags
// (see github.com/caarlos0/env):
//
//	type StripeConfig struct {
//		SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
//		WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
//	}
//
//	var cfg StripeConfig
//	config.MustLoad(&cfg)
//
// The .env file is read at most once per process; missing files are not an
// error. All validation beyond tag parsing belongs to the consuming package
// so that misconfiguration fails at construction time, not at first use.
package config

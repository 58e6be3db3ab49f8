// ABOUTME: Configuration package for the readaloud binaries
// ABOUTME: Defaults, .env via godotenv, environment and flags
// Package config resolves reader settings.
//
// Precedence, lowest first: built-in defaults, the .env file, the process
// environment, command-line flags.
//
// Example:
//
//	cfg, err := config.Load(config.DefaultEnvFile)
//	cfg.RegisterFlags(flag.CommandLine)
//	flag.Parse()
//	err = cfg.Validate()
package config

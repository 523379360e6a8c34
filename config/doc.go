// Package config provides application configuration management.
//
// The config package handles loading and validation of the application's
// configuration from YAML files. It covers server settings, the safety
// policy (action whitelist, parameter ceiling, writable roots, shell
// whitelist), sandbox execution budgets, and storage paths.
//
// Usage:
//
//	cfg, err := config.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Exec timeout: %s\n", cfg.ExecTimeout())
package config

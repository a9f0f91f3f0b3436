// Package config provides configuration management for the AIMM toolkit.
// It loads settings from defaults, an optional YAML file and environment
// variables, then validates the result.
//
// # Configuration Sources
//
// Sources are applied in this order, each overriding the previous one:
//
//	1. Default values (lowest priority)
//	2. YAML file named by AIMM_CONFIG, or config.yaml, or configs/config.yaml
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables use the AIMM_ prefix followed by the section:
//
//	AIMM_SERVER_PORT=8080
//	AIMM_LOGGING_LEVEL=debug
//	AIMM_VALIDATION_STRICT=true
//	AIMM_DEMO_SEED=7
//	AIMM_TELEMETRY_ENABLED=true
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Address())
package config

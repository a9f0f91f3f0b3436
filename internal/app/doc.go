// Package app wires the AIMM toolkit server together: configuration,
// logging, telemetry, services, HTTP handlers and the demo stream hub.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config file and environment
//	2. Initialize logging and OpenTelemetry
//	3. Load the input schema and create the services
//	4. Build the router and its middleware chain
//	5. Listen and serve until the context is cancelled or a signal arrives
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM open demo streams are sent a going-away close frame,
// in-flight requests are given ShutdownTimeout to finish and telemetry
// providers are flushed. The package never calls os.Exit; errors are
// returned to main.
package app

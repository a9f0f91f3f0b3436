// Package services orchestrates the schema, evaluation and demo packages for
// the command-line tools and the HTTP server.
//
// Each service is stateless per call and safe for concurrent use. Calls run
// inside an OpenTelemetry span and record business metrics when a
// *infrastructure.BusinessMetrics is injected; a nil metrics value disables
// recording.
//
//	svc, err := services.NewValidationService(schema.DefaultInputSchema(), 4, metrics, logger)
//	if err != nil {
//	    return err
//	}
//	batch, err := svc.ValidateFiles(ctx, services.KindInputs, paths)
//
// Sample and record violations are results, not errors. Errors are reserved
// for unreadable files, cancelled contexts and invalid evaluation sets.
package services

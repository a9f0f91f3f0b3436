// Package http implements the HTTP handlers of the AIMM toolkit server.
// Handlers stay thin: they decode and check the request, call a service and
// render the result.
//
// # Endpoints
//
//	GET  /api/health                 liveness
//	GET  /api/health/ready           readiness of the schemas and demo stream
//	GET  /api/version                build and contract versions
//	GET  /api/v1/schema/inputs       input feature schema
//	GET  /api/v1/schema/outputs      risk assessment record schema
//	POST /api/v1/validate/inputs     one sample or an array of samples
//	POST /api/v1/validate/outputs    one record or an array of records
//	POST /api/v1/metrics/evaluate    evaluation set
//	POST /api/v1/demo/run            seeded toy demonstration
//	GET  /metrics                    Prometheus exposition
//
// # Error Handling
//
// Errors are rendered as RFC 7807 problem documents by errors.ErrorHandler:
//
//	{
//	    "type": "/errors/schema-violation",
//	    "title": "Schema Violation",
//	    "status": 422,
//	    "detail": "risk_score: ...",
//	    "instance": "/api/v1/validate/outputs"
//	}
//
// Validation endpoints are the exception. A batch containing invalid items is
// not an error; it is answered with the full per-item report and status 422.
package http

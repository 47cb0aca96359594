// Package api provides the REST API for the fwgen firewall lifecycle.
//
// The server is bound to one loaded configuration. It exposes:
//   - The compiled rule and set documents, normal and reset variants
//   - The lifecycle operations apply, save, commit, rollback and reset
//   - Lifecycle status, snapshot presence and health checks
//
// Lifecycle operations are serialized: a second request waits for the first to finish.
// Access is restricted to private, link-local and loopback clients.
//
// # Response Format
//
// Documents are returned as text/plain, exactly as they are submitted to the engines.
// Every other successful response wraps data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "validation_failed",
//	    "message": "Human-readable error message",
//	    "details": { "code": "UNDEFINED_ZONE", "ref": "dmz" }
//	  }
//	}
package api

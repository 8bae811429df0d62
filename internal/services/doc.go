// Package services defines shared utilities consumed by the batch pipeline
// stages and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, item labels, and stage names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that tag failures with the
//     category the batch report and exit code logic classify on.
//   - Thin abstractions that make command execution against external tools
//     testable.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services

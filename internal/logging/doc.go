// Package logging centralizes slog construction for the toolkit.
//
// It provides a console handler with compact "ts LEVEL component: msg k=v"
// output, a JSON handler for machine consumption, context-derived fields so
// every record carries the run, item, and stage it belongs to, and retention
// helpers that prune old run logs.
package logging

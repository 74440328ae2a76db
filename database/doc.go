// Package database provides connection management for the repository layer:
// configuration loading, a Bun-backed connection manager with health checks
// and statistics, model registration, schema creation for registered models,
// query logging hooks, and SQL error classification.
package database

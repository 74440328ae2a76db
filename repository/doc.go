// Package repository provides a generic data-access layer built on Bun:
// scoped CRUD operations, attribute casting and validation on writes,
// optional lifecycle hooks, pagination, relation sync, and soft-delete aware
// delete/restore semantics.
package repository

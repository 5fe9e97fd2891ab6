// Package store defines interfaces for task persistence.
// These interfaces abstract the underlying storage mechanism from the
// application's core logic, so the task rules stay independent of whether
// tasks live in a JSON document or a SQL database.
package store

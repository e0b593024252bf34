// Package store defines the persistence interfaces for memos, tags and
// their associations, along with shared store errors and transaction
// helpers. Implementations live under internal/platform.
package store

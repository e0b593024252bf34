// Package service implements the application's business operations over
// the store interfaces: the memo query engine, the memo mutation service
// and the tag service. Services validate input, orchestrate transactions
// and emit view-invalidation events after successful writes.
package service

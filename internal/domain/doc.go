// Package domain defines the core business entities of the memopad
// application (memos, tags, and their association) along with the input
// types and field-level validation used by the service layer.
package domain

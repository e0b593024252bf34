// Package api contains the HTTP handlers, request/response models and
// error mapping for the memo, tag and trash endpoints. Handlers decode
// and convert requests to domain inputs, delegate to the service layer
// and wrap every response in the ActionResult envelope.
package api

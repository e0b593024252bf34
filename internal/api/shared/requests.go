package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into v, rejecting unknown fields so
// typos in request bodies fail loudly instead of silently dropping data.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

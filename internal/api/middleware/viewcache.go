package middleware

import (
	"net/http"

	"github.com/memopad/memopad-api/internal/service/viewcache"
)

// ViewCacheMiddleware installs a fresh view cache on every request
// context. The cache memoizes repeated reads within the request and is
// discarded when the request ends; it is never shared across requests.
func ViewCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := viewcache.WithCache(r.Context(), viewcache.New())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

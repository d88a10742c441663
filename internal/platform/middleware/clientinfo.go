package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// ClientMetadata is the parsed client context attached to appeal submissions
// for the audit trail.
type ClientMetadata struct {
	Browser        string
	BrowserVersion string
	OS             string
	Mobile         bool
	Bot            bool
}

type clientMetadataKey struct{}

// GetClientMetadata retrieves the parsed client metadata from the context.
func GetClientMetadata(ctx context.Context) (ClientMetadata, bool) {
	meta, ok := ctx.Value(clientMetadataKey{}).(ClientMetadata)
	return meta, ok
}

// ClientInfo parses the User-Agent header and stores the client metadata in
// the request context. Requests without a User-Agent pass through untouched.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		ua := useragent.New(raw)
		browser, version := ua.Browser()
		meta := ClientMetadata{
			Browser:        browser,
			BrowserVersion: version,
			OS:             ua.OS(),
			Mobile:         ua.Mobile(),
			Bot:            ua.Bot(),
		}
		ctx := context.WithValue(r.Context(), clientMetadataKey{}, meta)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

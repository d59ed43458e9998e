package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/line"
)

// TokenResolver turns the opaque platform token into a caller identity.
// *line.Client satisfies this; tests plug in a fake.
type TokenResolver interface {
	ResolveToken(ctx context.Context, accessToken string) (*line.Profile, error)
}

// bearerToken extracts the access token from the Authorization header.
// The LIFF front-end sends "Authorization: Bearer <liff access token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return h
}

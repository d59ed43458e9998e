package line_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/line"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// platformStub mimics the two LINE endpoints the client talks to.
type platformStub struct {
	clientID  string
	expiresIn int64
	userID    string
	// validToken is the only token the stub accepts.
	validToken string
}

func (s *platformStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2.1/verify", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("access_token") != s.validToken {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_request"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"client_id":  s.clientID,
			"expires_in": s.expiresIn,
		})
	})
	mux.HandleFunc("/v2/profile", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer "+s.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"userId":      s.userID,
			"displayName": "Somchai",
		})
	})
	return mux
}

func newStubClient(t *testing.T, stub *platformStub, channelID string) *line.Client {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	return line.NewClient(srv.URL, channelID, 2*time.Second, zap.NewNop())
}

func TestResolveToken(t *testing.T) {
	stub := &platformStub{
		clientID:   "channel-1",
		expiresIn:  3600,
		userID:     "U-caller",
		validToken: "good-token",
	}
	c := newStubClient(t, stub, "channel-1")

	profile, err := c.ResolveToken(context.Background(), "good-token")
	require.NoError(t, err)
	require.Equal(t, "U-caller", profile.UserID)
	require.Equal(t, "Somchai", profile.DisplayName)
}

func TestResolveToken_EmptyToken(t *testing.T) {
	c := newStubClient(t, &platformStub{}, "")
	_, err := c.ResolveToken(context.Background(), "")
	require.ErrorIs(t, err, line.ErrInvalidToken)
}

func TestResolveToken_RejectedByPlatform(t *testing.T) {
	stub := &platformStub{validToken: "good-token"}
	c := newStubClient(t, stub, "")

	_, err := c.ResolveToken(context.Background(), "stale-token")
	require.ErrorIs(t, err, line.ErrInvalidToken)
}

func TestResolveToken_ExpiredToken(t *testing.T) {
	stub := &platformStub{
		clientID:   "channel-1",
		expiresIn:  0,
		validToken: "good-token",
	}
	c := newStubClient(t, stub, "channel-1")

	_, err := c.ResolveToken(context.Background(), "good-token")
	require.ErrorIs(t, err, line.ErrInvalidToken)
}

func TestResolveToken_WrongChannel(t *testing.T) {
	stub := &platformStub{
		clientID:   "someone-elses-channel",
		expiresIn:  3600,
		userID:     "U-caller",
		validToken: "good-token",
	}
	c := newStubClient(t, stub, "channel-1")

	_, err := c.ResolveToken(context.Background(), "good-token")
	require.ErrorIs(t, err, line.ErrInvalidToken)
}

func TestResolveToken_NoChannelCheckWhenUnconfigured(t *testing.T) {
	stub := &platformStub{
		clientID:   "someone-elses-channel",
		expiresIn:  3600,
		userID:     "U-caller",
		validToken: "good-token",
	}
	c := newStubClient(t, stub, "")

	profile, err := c.ResolveToken(context.Background(), "good-token")
	require.NoError(t, err)
	require.Equal(t, "U-caller", profile.UserID)
}

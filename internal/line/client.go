package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrInvalidToken means the LINE platform rejected the access token
// (expired, revoked, or issued for a different channel).
var ErrInvalidToken = errors.New("invalid LINE access token")

// Profile is the resolved caller identity.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type verifyResponse struct {
	ClientID  string `json:"client_id"`
	ExpiresIn int64  `json:"expires_in"`
}

// Client verifies LIFF access tokens against the LINE platform API. The
// token arrives as an opaque bearer credential from the LIFF front-end; the
// backend never mints or refreshes tokens itself.
type Client struct {
	httpClient *resty.Client
	channelID  string
	logger     *zap.Logger
}

// NewClient builds the platform client. channelID, when non-empty, is
// checked against the token's issuing channel so a token minted for another
// LIFF app cannot be replayed here.
func NewClient(baseURL, channelID string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		channelID:  channelID,
		logger:     logger,
	}
}

// ResolveToken validates the access token and returns the caller's LINE
// profile. Rejections map to ErrInvalidToken; transport failures surface
// as-is.
func (c *Client) ResolveToken(ctx context.Context, accessToken string) (*Profile, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	var verify verifyResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetResult(&verify).
		Get("/oauth2/v2.1/verify")
	if err != nil {
		return nil, fmt.Errorf("failed to verify access token: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Debug("LINE token verification rejected",
			zap.Int("status", resp.StatusCode()),
		)
		return nil, ErrInvalidToken
	}
	if verify.ExpiresIn <= 0 {
		return nil, ErrInvalidToken
	}
	if c.channelID != "" && verify.ClientID != c.channelID {
		c.logger.Warn("LINE token issued for a different channel",
			zap.String("token_channel", verify.ClientID),
		)
		return nil, ErrInvalidToken
	}

	var profile Profile
	resp, err = c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+accessToken).
		SetResult(&profile).
		Get("/v2/profile")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch LINE profile: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("LINE profile request failed: status %d", resp.StatusCode())
	}
	if profile.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &profile, nil
}

package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/trippilot/backend/pkg/logger"
)

// tokenResponse mirrors the JSON from the OAuth2 token endpoint
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	TokenType   string `json:"token_type"`
}

// tokenProvider caches a single process-wide bearer credential behind a
// client-credentials exchange. Concurrent requests may race to refresh the
// slot; a stale read self-heals on the next 401.
type tokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func newTokenProvider(clientID, clientSecret, tokenURL string, timeout time.Duration) *tokenProvider {
	return &tokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// getValid returns the cached token, exchanging credentials when the slot is
// empty or expired.
func (tp *tokenProvider) getValid(ctx context.Context) (string, error) {
	tp.mu.RLock()
	if tp.token != "" && time.Now().Before(tp.expiresAt) {
		token := tp.token
		tp.mu.RUnlock()
		return token, nil
	}
	tp.mu.RUnlock()

	return tp.refresh(ctx)
}

// invalidate clears the cached token, forcing a re-exchange on the next call
func (tp *tokenProvider) invalidate() {
	tp.mu.Lock()
	tp.token = ""
	tp.expiresAt = time.Time{}
	tp.mu.Unlock()
}

func (tp *tokenProvider) refresh(ctx context.Context) (string, error) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	// Another request may have refreshed while we waited for the lock
	if tp.token != "" && time.Now().Before(tp.expiresAt) {
		return tp.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {tp.clientID},
		"client_secret": {tp.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tp.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tp.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected token endpoint status code: %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	tp.token = tok.AccessToken
	tp.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return tp.token, nil
}

// openskyResponse mirrors the JSON shape of the states endpoint
type openskyResponse struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

// OpenSkyClient fetches positional state vectors from the OpenSky Network
// REST API using a cached bearer credential. OpenSky state vectors carry no
// route information, so HasRouteData reports false.
type OpenSkyClient struct {
	baseURL    string
	tokens     *tokenProvider
	httpClient *http.Client
	logger     *logger.Logger
}

// NewOpenSkyClient creates a new token-based REST provider
func NewOpenSkyClient(baseURL, tokenURL, clientID, clientSecret string, timeout time.Duration, logger *logger.Logger) *OpenSkyClient {
	return &OpenSkyClient{
		baseURL:    baseURL,
		tokens:     newTokenProvider(clientID, clientSecret, tokenURL, timeout),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("opensky-cli"),
	}
}

// Name identifies the provider in logs
func (c *OpenSkyClient) Name() string { return "opensky" }

// HasRouteData reports that OpenSky state vectors lack origin/destination
func (c *OpenSkyClient) HasRouteData() bool { return false }

// FetchStates fetches the state vectors currently inside the bounding box
func (c *OpenSkyClient) FetchStates(ctx context.Context, box BoundingBox) ([]RawFlight, error) {
	token, err := c.tokens.getValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	query := url.Values{}
	query.Set("lamin", fmt.Sprintf("%g", box.LatMin))
	query.Set("lomin", fmt.Sprintf("%g", box.LonMin))
	query.Set("lamax", fmt.Sprintf("%g", box.LatMax))
	query.Set("lomax", fmt.Sprintf("%g", box.LonMax))

	reqURL := fmt.Sprintf("%s/states/all?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug("Fetching OpenSky state vectors", logger.String("url", reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing
	case http.StatusTooManyRequests:
		// Rate limited: the credential is still good, leave the cache alone
		return nil, fmt.Errorf("rate limited by upstream (status %d)", resp.StatusCode)
	case http.StatusUnauthorized:
		// Expired credential: clear the slot so the next call re-exchanges
		c.tokens.invalidate()
		return nil, fmt.Errorf("access token rejected (status %d)", resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data openskyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	raw := parseStateVectors(data)
	c.logger.Debug("Successfully fetched OpenSky state vectors",
		logger.Int("state_count", len(raw)))
	return raw, nil
}

// parseStateVectors maps positional OpenSky state arrays into raw records.
// Fields are type-probed individually; a vector shorter than the documented
// 17 elements is skipped outright.
func parseStateVectors(data openskyResponse) []RawFlight {
	raw := make([]RawFlight, 0, len(data.States))
	for _, s := range data.States {
		if len(s) < 17 {
			continue
		}
		rf := RawFlight{ID: stateString(s[0])}
		if cs := stateString(s[1]); cs != "" {
			rf.Callsign = &cs
		}
		if v, ok := s[5].(float64); ok {
			lon := v
			rf.Lon = &lon
		}
		if v, ok := s[6].(float64); ok {
			lat := v
			rf.Lat = &lat
		}
		if v, ok := s[7].(float64); ok {
			altFt := v * FeetPerMeter
			rf.AltitudeFt = &altFt
		}
		if v, ok := s[9].(float64); ok {
			speedKts := v * KnotsPerMPS
			rf.SpeedKts = &speedKts
		}
		if v, ok := s[10].(float64); ok {
			heading := v
			rf.Heading = &heading
		}
		raw = append(raw, rf)
	}
	return raw
}

func stateString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

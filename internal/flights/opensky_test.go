package flights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateVector builds a 17-element OpenSky state array
func stateVector(icao24, callsign string, lon, lat, altMeters, velocityMPS, heading float64) []interface{} {
	return []interface{}{
		icao24, callsign, "India", 1700000000, 1700000000,
		lon, lat, altMeters, false, velocityMPS, heading,
		0.0, nil, altMeters, "1234", false, 0,
	}
}

func newTokenServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "test-id", r.Form.Get("client_id"))
		assert.Equal(t, "test-secret", r.Form.Get("client_secret"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-1",
			"expires_in":   1800,
			"token_type":   "Bearer",
		})
	}))
}

func newOpenSkyTestClient(t *testing.T, apiURL, tokenURL string) *OpenSkyClient {
	t.Helper()
	return NewOpenSkyClient(apiURL, tokenURL, "test-id", "test-secret", 5*time.Second, newTestLogger(t))
}

func TestOpenSkyFetchStates(t *testing.T) {
	var tokenCalls atomic.Int64
	tokenSrv := newTokenServer(t, &tokenCalls)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/states/all", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "6", r.URL.Query().Get("lamin"))
		assert.Equal(t, "37", r.URL.Query().Get("lamax"))
		assert.Equal(t, "68", r.URL.Query().Get("lomin"))
		assert.Equal(t, "97", r.URL.Query().Get("lomax"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"time": 1700000000,
			"states": [][]interface{}{
				stateVector("800abc", "IGO202  ", 77.1, 28.5, 10000, 230, 182.3),
			},
		})
	}))
	defer apiSrv.Close()

	client := newOpenSkyTestClient(t, apiSrv.URL, tokenSrv.URL)
	raw, err := client.FetchStates(context.Background(), IndiaBoundingBox())
	require.NoError(t, err)
	require.Len(t, raw, 1)

	f := raw[0]
	assert.Equal(t, "800abc", f.ID)
	require.NotNil(t, f.Callsign)
	assert.Equal(t, "IGO202  ", *f.Callsign)
	require.NotNil(t, f.Lat)
	assert.Equal(t, 28.5, *f.Lat)
	require.NotNil(t, f.AltitudeFt)
	assert.InDelta(t, 10000*FeetPerMeter, *f.AltitudeFt, 0.1)
	require.NotNil(t, f.SpeedKts)
	assert.InDelta(t, 230*KnotsPerMPS, *f.SpeedKts, 0.1)

	assert.Equal(t, int64(1), tokenCalls.Load())
}

func TestOpenSkyTokenCachedAcrossCalls(t *testing.T) {
	var tokenCalls atomic.Int64
	tokenSrv := newTokenServer(t, &tokenCalls)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"time": 0, "states": [][]interface{}{}})
	}))
	defer apiSrv.Close()

	client := newOpenSkyTestClient(t, apiSrv.URL, tokenSrv.URL)
	for i := 0; i < 3; i++ {
		_, err := client.FetchStates(context.Background(), IndiaBoundingBox())
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), tokenCalls.Load())
}

func TestOpenSkyUnauthorizedInvalidatesToken(t *testing.T) {
	var tokenCalls atomic.Int64
	tokenSrv := newTokenServer(t, &tokenCalls)
	defer tokenSrv.Close()

	var apiCalls atomic.Int64
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"time": 0, "states": [][]interface{}{}})
	}))
	defer apiSrv.Close()

	client := newOpenSkyTestClient(t, apiSrv.URL, tokenSrv.URL)

	// First call fails on 401 and clears the cached credential
	_, err := client.FetchStates(context.Background(), IndiaBoundingBox())
	require.Error(t, err)

	// Second call re-exchanges and succeeds
	_, err = client.FetchStates(context.Background(), IndiaBoundingBox())
	require.NoError(t, err)
	assert.Equal(t, int64(2), tokenCalls.Load())
}

func TestOpenSkyRateLimitKeepsToken(t *testing.T) {
	var tokenCalls atomic.Int64
	tokenSrv := newTokenServer(t, &tokenCalls)
	defer tokenSrv.Close()

	var apiCalls atomic.Int64
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"time": 0, "states": [][]interface{}{}})
	}))
	defer apiSrv.Close()

	client := newOpenSkyTestClient(t, apiSrv.URL, tokenSrv.URL)

	_, err := client.FetchStates(context.Background(), IndiaBoundingBox())
	require.Error(t, err)

	// The credential survives a rate limit: no second exchange
	_, err = client.FetchStates(context.Background(), IndiaBoundingBox())
	require.NoError(t, err)
	assert.Equal(t, int64(1), tokenCalls.Load())
}

func TestOpenSkyTokenEndpointFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer tokenSrv.Close()

	client := newOpenSkyTestClient(t, "http://unused.invalid", tokenSrv.URL)
	_, err := client.FetchStates(context.Background(), IndiaBoundingBox())
	assert.Error(t, err)
}

func TestParseStateVectorsSkipsShortVectors(t *testing.T) {
	data := openskyResponse{
		States: [][]interface{}{
			{"too", "short"},
			stateVector("800abc", "AIC405", 72.8, 19.1, 11000, 240, 90),
		},
	}

	raw := parseStateVectors(data)
	require.Len(t, raw, 1)
	assert.Equal(t, "800abc", raw[0].ID)
}

func TestParseStateVectorsTypeProbing(t *testing.T) {
	// Null position and altitude fields stay nil rather than zero
	vec := stateVector("800abc", "", 0, 0, 0, 0, 0)
	vec[1] = nil // callsign
	vec[5] = nil // longitude
	vec[6] = nil // latitude
	vec[7] = nil // altitude

	raw := parseStateVectors(openskyResponse{States: [][]interface{}{vec}})
	require.Len(t, raw, 1)
	assert.Nil(t, raw[0].Callsign)
	assert.Nil(t, raw[0].Lat)
	assert.Nil(t, raw[0].Lon)
	assert.Nil(t, raw[0].AltitudeFt)
}

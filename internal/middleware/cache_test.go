package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/aylinkal/band-events/internal/config"
)

func cacheCtx(target string, header map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/events")
	return c
}

func TestCacheKeyFrom_StableAndQuerySensitive(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, cacheCtx("/v1/events", nil))
	b := cacheKeyFrom(cfg, cacheCtx("/v1/events", nil))
	assert.Equal(t, a, b)

	c := cacheKeyFrom(cfg, cacheCtx("/v1/events?page=2", nil))
	assert.NotEqual(t, a, c)
}

func TestEncodeDecodePayloadRoundtrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"past_events":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	assert.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayload_Truncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
}

func TestHasSession(t *testing.T) {
	assert.False(t, hasSession(cacheCtx("/v1/events", nil)))
	assert.True(t, hasSession(cacheCtx("/v1/events", map[string]string{"Authorization": "Bearer abc"})))
	assert.True(t, hasSession(cacheCtx("/v1/events", map[string]string{"Cookie": SessionCookieName + "=tok"})))
}

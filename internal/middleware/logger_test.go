package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = log.Output(&buf)
	t.Cleanup(func() { log.Logger = original })

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req = req.WithContext(context.WithValue(req.Context(), WorkspaceIDKey, int32(7)))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestLogger()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "/api/v1/summary", line["path"])
	assert.Equal(t, float64(404), line["status"])
	assert.Equal(t, float64(7), line["workspace_id"])
}

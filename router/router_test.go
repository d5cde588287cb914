package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/shitamachi/fcm-bridge/api"
	"github.com/shitamachi/fcm-bridge/apns"
	"github.com/shitamachi/fcm-bridge/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInitRouter_SwaggerDoc(t *testing.T) {
	logger := zaptest.NewLogger(t)
	conf := &config.AppConfig{Mode: "test"}
	r := InitRouter(conf, api.NewAppContext(conf, logger, nil, nil, apns.NewRegistrar(logger), nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger string                 `json:"swagger"`
		Paths   map[string]interface{} `json:"paths"`
	}
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)

	// every route mounted by InitRouter is documented
	for _, route := range r.Routes() {
		if route.Path == "/health" || (len(route.Path) > 4 && route.Path[:4] == "/v1/") {
			path := route.Path
			if path == "/v1/test_push/:type" {
				path = "/v1/test_push/{type}"
			}
			assert.Contains(t, doc.Paths, path)
		}
	}
	assert.Len(t, doc.Paths, 7)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

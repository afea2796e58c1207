package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRequestIDRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestRequestIDMiddleware_GeneratesWhenAbsent(t *testing.T) {
	router, seen := newRequestIDRouter()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	requestID := recorder.Header().Get(RequestIDHeader)
	require.NotEmpty(t, requestID)
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
	assert.Equal(t, requestID, *seen)
}

func TestRequestIDMiddleware_PropagatesIncoming(t *testing.T) {
	router, seen := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, "client-supplied-id", recorder.Header().Get(RequestIDHeader))
	assert.Equal(t, "client-supplied-id", *seen)
}

func TestGetRequestID_EmptyWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, "", GetRequestID(c))
}

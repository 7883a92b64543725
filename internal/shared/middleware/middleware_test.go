package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/changhyeonkim/hello-orm/internal/config"
	sharedContext "github.com/changhyeonkim/hello-orm/internal/shared/context"
	sharedError "github.com/changhyeonkim/hello-orm/internal/shared/error"
	"github.com/changhyeonkim/hello-orm/internal/shared/metrics"
	"github.com/changhyeonkim/hello-orm/internal/shared/middleware"
	"github.com/changhyeonkim/hello-orm/internal/shared/testutil"
	"github.com/changhyeonkim/hello-orm/internal/shared/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenManager() *token.JWTManager {
	return token.NewJWTManager(&config.Config{
		App: config.AppConfig{Name: "hello-orm-test"},
		JWT: config.JWTConfig{Secret: testutil.TestJWTSecret, Expiry: time.Hour},
	})
}

func setupProtectedRouter(manager token.Manager) *gin.Engine {
	router := testutil.SetupTestRouter()
	router.Use(middleware.RequestID())
	router.GET("/protected", middleware.JWT(manager), func(c *gin.Context) {
		subject, _ := sharedContext.GetSubject(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
	return router
}

func TestJWT_AcceptsValidToken(t *testing.T) {
	manager := newTokenManager()
	router := setupProtectedRouter(manager)

	accessToken, err := manager.GenerateAccessToken("alice")
	require.NoError(t, err)

	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method:  http.MethodGet,
		URL:     "/protected",
		Headers: map[string]string{middleware.AuthorizationHeader: "Bearer " + accessToken},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	testutil.ParseResponse(t, recorder, &body)
	assert.Equal(t, "alice", body["subject"])
	assert.NotEmpty(t, recorder.Header().Get(middleware.RequestIDHeader))
}

func TestJWT_Rejects(t *testing.T) {
	router := setupProtectedRouter(newTokenManager())

	testCases := []struct {
		name   string
		header string
		code   string
	}{
		{"Missing header", "", "AUTH-001"},
		{"Wrong scheme", "Basic abc", "AUTH-002"},
		{"Garbage token", "Bearer abc", "AUTH-002"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.header != "" {
				headers[middleware.AuthorizationHeader] = tc.header
			}

			recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
				Method:  http.MethodGet,
				URL:     "/protected",
				Headers: headers,
			})

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)

			var errorResponse sharedError.ErrorResponse
			testutil.ParseResponse(t, recorder, &errorResponse)
			assert.Equal(t, tc.code, errorResponse.Code)
		})
	}
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.Use(middleware.RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, "req-123", recorder.Body.String())
	assert.Equal(t, "req-123", recorder.Header().Get(middleware.RequestIDHeader))
}

func TestRequestID_ReplacesOversizedHeader(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.Use(middleware.RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, strings.Repeat("x", 200))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Len(t, recorder.Body.String(), 36) // uuid
}

func TestTimeout_RespondsWhenHandlerGivesUp(t *testing.T) {
	// Given: a handler that waits for the deadline and writes nothing
	router := testutil.SetupTestRouter()
	router.Use(middleware.RequestID(), middleware.Timeout(10*time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
		assert.True(t, middleware.IsTimeout(c))
	})

	// When
	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{Method: http.MethodGet, URL: "/slow"})

	// Then
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var errorResponse sharedError.ErrorResponse
	testutil.ParseResponse(t, recorder, &errorResponse)
	assert.Equal(t, "ERROR-004", errorResponse.Code)
}

func TestCORS_ExposesRequestID(t *testing.T) {
	cfg := testutil.NewTestConfig(t)
	cfg.CORS.AllowedOrigins = []string{"https://a.example.com", " https://b.example.com "}

	router := testutil.SetupTestRouter()
	router.Use(middleware.CORS(cfg))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://b.example.com")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "https://b.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	// header names are lower-cased by the cors middleware
	exposed := strings.ToLower(recorder.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposed, strings.ToLower(middleware.RequestIDHeader))
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.Use(middleware.Metrics())
	router.GET("/members/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	testutil.ExecuteRequest(t, router, testutil.TestRequest{Method: http.MethodGet, URL: "/members/7"})

	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, recorder.Body.String(), `hello_orm_http_requests_total{method="GET",route="/members/:id",status="200"}`)
}

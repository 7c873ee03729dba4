package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping/:id", "204"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/42", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping/:id", "204")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "interview_prep_http_requests_total")
}

func TestAnswerScoredOutcome(t *testing.T) {
	before := testutil.ToFloat64(answersScored.WithLabelValues("coding", "fallback"))
	AnswerScored("coding", true)
	assert.Equal(t, before+1, testutil.ToFloat64(answersScored.WithLabelValues("coding", "fallback")))
}

package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Instrument())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", Handler())
	return r
}

func TestInstrument_LabelsByRoute(t *testing.T) {
	r := newTestRouter()
	before := testutil.CollectAndCount(RequestDuration)

	for _, path := range []string{"/users/1", "/users/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	// both /users/* requests share one series; /nope lands in "unmatched"
	if got := testutil.CollectAndCount(RequestDuration) - before; got > 2 {
		t.Fatalf("expected at most 2 new series, got %d", got)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	if !strings.Contains(body, `route="/users/:id"`) || !strings.Contains(body, `route="unmatched"`) {
		t.Fatalf("route labels missing from /metrics output")
	}
}

func TestCounters(t *testing.T) {
	start := testutil.ToFloat64(LoginFailure.WithLabelValues(ReasonInvalidCredentials))
	LoginFailure.WithLabelValues(ReasonInvalidCredentials).Inc()
	if got := testutil.ToFloat64(LoginFailure.WithLabelValues(ReasonInvalidCredentials)); got != start+1 {
		t.Fatalf("login_failure_total = %v, want %v", got, start+1)
	}

	posted := testutil.ToFloat64(MessagesPosted)
	MessagesPosted.Inc()
	if got := testutil.ToFloat64(MessagesPosted); got != posted+1 {
		t.Fatalf("messages_posted_total = %v, want %v", got, posted+1)
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatalf("first two requests rejected")
	}
	if rl.Allow("a") {
		t.Fatalf("third request allowed")
	}
	if !rl.Allow("b") {
		t.Fatalf("other client rejected")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatalf("request after window rejected")
	}

	now = now.Add(2 * time.Minute)
	rl.cleanup()
	if len(rl.requests) != 0 {
		t.Fatalf("stale entries left: %v", rl.requests)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(1, time.Minute).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

type fakeAuthorizer struct{}

func (fakeAuthorizer) Authorize(id, token string) error {
	if token == "good-"+id {
		return nil
	}
	return errors.New("bad token")
}

func TestSessionAuth(t *testing.T) {
	r := gin.New()
	r.GET("/sessions/:id", SessionAuth(fakeAuthorizer{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		url    string
		header string
		want   int
	}{
		{"bearer", "/sessions/s1", "Bearer good-s1", http.StatusOK},
		{"query", "/sessions/s1?token=good-s1", "", http.StatusOK},
		{"missing", "/sessions/s1", "", http.StatusUnauthorized},
		{"other session", "/sessions/s2", "Bearer good-s1", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.want)
		}
	}
}

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newBufferLogger(buf *bytes.Buffer) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-1")
		c.Next()
	})
	router.Use(ContextLogger(logger))
	router.Use(LoggerMiddleware(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	tests := []struct {
		path      string
		wantLevel string
		wantLines int
	}{
		{"/ok", "INFO", 1},
		{"/fail", "ERROR", 2},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != tt.wantLines {
				t.Fatalf("got %d log lines, want %d: %s", len(lines), tt.wantLines, buf.String())
			}
			var entry map[string]any
			if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
				t.Fatalf("invalid json log: %v", err)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["request_id"] != "req-1" {
				t.Errorf("request_id = %v, want req-1", entry["request_id"])
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	fallback := newBufferLogger(&buf)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := FromContext(req.Context(), fallback); got != Logger(fallback) {
		t.Error("FromContext() without logger should return fallback")
	}

	scoped := fallback.With("k", "v")
	ctx := WithLogger(req.Context(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Error("FromContext() did not return stored logger")
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 5 * time.Second

// HealthChecker is satisfied by the service manager
type HealthChecker interface {
	HealthCheck(ctx context.Context) map[string]error
}

type HealthHandler struct {
	checker HealthChecker
	now     func() time.Time
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker, now: time.Now}
}

// Health reports per-dependency status; any failing check answers 503
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	checks := make(map[string]string)
	for name, err := range h.checker.HealthCheck(ctx) {
		if err != nil {
			checks[name] = err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   "learning-service",
		"checks":    checks,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

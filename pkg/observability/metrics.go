package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}

// AuthMetrics counts authentication events. A nil *AuthMetrics records nothing.
type AuthMetrics struct {
	signups       metric.Int64Counter
	signins       metric.Int64Counter
	refreshes     metric.Int64Counter
	verifications metric.Int64Counter
	failures      metric.Int64Counter
}

// NewAuthMetrics registers the auth counters on meter
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	m := &AuthMetrics{}
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&m.signups, "auth.signups", "Accounts created"},
		{&m.signins, "auth.signins", "Successful sign-ins"},
		{&m.refreshes, "auth.refreshes", "Refresh tokens exchanged for a new pair"},
		{&m.verifications, "auth.verifications", "Verification codes consumed"},
		{&m.failures, "auth.failures", "Failed auth operations by kind"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
		*c.target = counter
	}

	return m, nil
}

func (m *AuthMetrics) Signup(ctx context.Context) {
	if m != nil {
		m.signups.Add(ctx, 1)
	}
}

func (m *AuthMetrics) Signin(ctx context.Context) {
	if m != nil {
		m.signins.Add(ctx, 1)
	}
}

func (m *AuthMetrics) Refresh(ctx context.Context) {
	if m != nil {
		m.refreshes.Add(ctx, 1)
	}
}

func (m *AuthMetrics) Verification(ctx context.Context) {
	if m != nil {
		m.verifications.Add(ctx, 1)
	}
}

// Failure records a failed operation
func (m *AuthMetrics) Failure(ctx context.Context, operation, kind string) {
	if m != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("kind", kind),
		))
	}
}

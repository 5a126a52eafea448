package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const principalKey ctxKey = "auth_principal"

var tracer = otel.Tracer("github.com/mediclinic/clinic-service/auth")

// MetricsRecorder interface for recording auth metrics
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
}

// Middleware validates the bearer token and injects Principal into the
// request context.
func Middleware(tokens *TokenProvider) func(http.Handler) http.Handler {
	return MiddlewareWithMetrics(tokens, nil)
}

// MiddlewareWithMetrics validates token with metrics recording
func MiddlewareWithMetrics(tokens *TokenProvider, metrics MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx, span := tracer.Start(ctx, "auth.Middleware",
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			authz := r.Header.Get("Authorization")
			if authz == "" {
				span.SetStatus(codes.Error, "missing authorization")
				span.SetAttributes(attribute.String("error.type", "missing_authorization"))
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, "missing_authorization")
				}
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				span.SetStatus(codes.Error, "invalid authorization header")
				span.SetAttributes(attribute.String("error.type", "invalid_header_format"))
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, "invalid_header_format")
				}
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			pr, err := tokens.ParseAndVerifyToken(parts[1])
			if err != nil {
				log.Printf("[ERROR] Token validation failed: %v", err)
				span.SetStatus(codes.Error, "token validation failed")
				span.SetAttributes(
					attribute.String("error.type", "invalid_token"),
					attribute.String("error.message", err.Error()),
				)
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, "invalid_token")
				}
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			span.SetAttributes(
				attribute.Int64("user.id", pr.UserID),
				attribute.String("user.email", pr.Email),
				attribute.String("user.role", string(pr.Role)),
			)
			span.SetStatus(codes.Ok, "authentication successful")

			ctx = context.WithValue(ctx, principalKey, pr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PermissionMetricsRecorder interface for recording permission check metrics
type PermissionMetricsRecorder interface {
	RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool)
}

// RequireAction returns middleware that ensures the principal's role
// holds some grant for the action. Ownership-scoped decisions still
// happen in the handler against the fetched record.
func RequireAction(action string, perms Permissions) func(http.Handler) http.Handler {
	return RequireActionWithMetrics(action, perms, nil)
}

// RequireActionWithMetrics returns middleware with metrics recording
func RequireActionWithMetrics(action string, perms Permissions, metrics PermissionMetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			ctx, span := tracer.Start(ctx, "auth.RequireAction",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("permission.required", action)),
			)
			defer span.End()

			pr, ok := FromContext(ctx)
			if !ok {
				span.SetStatus(codes.Error, "unauthenticated")
				if metrics != nil {
					metrics.RecordPermissionCheck(ctx, action, float64(time.Since(start).Milliseconds()), false)
				}
				http.Error(w, "unauthenticated", http.StatusUnauthorized)
				return
			}

			allowed := HasAction(perms, pr.Role, action)
			duration := float64(time.Since(start).Milliseconds())

			span.SetAttributes(
				attribute.Bool("permission.allowed", allowed),
				attribute.Int64("user.id", pr.UserID),
				attribute.String("user.role", string(pr.Role)),
			)

			if metrics != nil {
				metrics.RecordPermissionCheck(ctx, action, duration, allowed)
			}

			if !allowed {
				log.Printf("[PERMISSION DENIED] User: %d, Role: %s, Required Action: %s",
					pr.UserID, pr.Role, action)
				span.SetStatus(codes.Error, "forbidden")
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			span.SetStatus(codes.Ok, "permission granted")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts Principal from context.
func FromContext(ctx context.Context) (*Principal, bool) {
	pr, ok := ctx.Value(principalKey).(*Principal)
	return pr, ok
}

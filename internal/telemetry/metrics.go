package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	VisitTotal               metric.Int64Counter
	SchedulingConflictsTotal metric.Int64Counter
	PatientTotal             metric.Int64Counter
	DocumentTotal            metric.Int64Counter

	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/mediclinic/clinic-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	visitTotal, err := meter.Int64Counter(
		"visit_operations_total",
		metric.WithDescription("Total number of visit operations, labelled by operation and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	schedulingConflictsTotal, err := meter.Int64Counter(
		"scheduling_conflicts_total",
		metric.WithDescription("Total number of rejected visit slot requests"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, err
	}

	patientTotal, err := meter.Int64Counter(
		"patient_operations_total",
		metric.WithDescription("Total number of patient operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	documentTotal, err := meter.Int64Counter(
		"document_operations_total",
		metric.WithDescription("Total number of medical document operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	permissionCheckDuration, err := meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:        httpRequestsTotal,
		HTTPDurationMs:           httpDurationMs,
		VisitTotal:               visitTotal,
		SchedulingConflictsTotal: schedulingConflictsTotal,
		PatientTotal:             patientTotal,
		DocumentTotal:            documentTotal,
		AuthFailuresTotal:        authFailuresTotal,
		PermissionCheckDuration:  permissionCheckDuration,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordVisitOperation records a visit lifecycle operation metric
func (m *Metrics) RecordVisitOperation(ctx context.Context, operation, outcome string) {
	m.VisitTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordSchedulingConflict records a rejected slot request for a doctor
func (m *Metrics) RecordSchedulingConflict(ctx context.Context, operation string) {
	m.SchedulingConflictsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordPatientOperation records a patient operation metric
func (m *Metrics) RecordPatientOperation(ctx context.Context, operation string) {
	m.PatientTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordDocumentOperation records a medical document operation metric
func (m *Metrics) RecordDocumentOperation(ctx context.Context, operation string) {
	m.DocumentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}

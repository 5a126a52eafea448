package telemetry

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName      string
	ServiceNamespace string
	ServiceVersion   string
	Environment      string
	OTLPEndpoint     string
	TracesSampler    string
	MetricsInterval  time.Duration
}

// LoadConfig loads OpenTelemetry configuration from environment variables
func LoadConfig() Config {
	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "clinic-service"
	}

	serviceNamespace := os.Getenv("OTEL_SERVICE_NAMESPACE")
	if serviceNamespace == "" {
		serviceNamespace = "mediclinic"
	}

	serviceVersion := os.Getenv("OTEL_SERVICE_VERSION")
	if serviceVersion == "" {
		serviceVersion = "1.0.0"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "production"
	}

	tracesSampler := os.Getenv("OTEL_TRACES_SAMPLER")
	if tracesSampler == "" {
		tracesSampler = "always_on"
	}

	metricsInterval := 30 * time.Second
	if s := os.Getenv("OTEL_METRICS_EXPORT_INTERVAL"); s != "" {
		if duration, err := time.ParseDuration(s); err == nil {
			metricsInterval = duration
		}
	}

	return Config{
		ServiceName:      serviceName,
		ServiceNamespace: serviceNamespace,
		ServiceVersion:   serviceVersion,
		Environment:      environment,
		OTLPEndpoint:     otlpEndpoint,
		TracesSampler:    tracesSampler,
		MetricsInterval:  metricsInterval,
	}
}

// Provider holds the OpenTelemetry providers
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	config         Config
}

// InitProvider initializes OpenTelemetry tracer and meter providers.
// It fails gracefully if the OTLP collector is unavailable.
func InitProvider(ctx context.Context, cfg Config) (*Provider, error) {
	log.Printf("Initializing OpenTelemetry with endpoint: %s", cfg.OTLPEndpoint)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceNamespace(cfg.ServiceNamespace),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tracerProvider, err := initTracerProvider(ctx, cfg, res)
	if err != nil {
		log.Printf("Warning: failed to initialize tracer provider: %v", err)
		log.Println("Service will continue without distributed tracing")
		tracerProvider = nil
	} else {
		otel.SetTracerProvider(tracerProvider)
		log.Println("✓ OpenTelemetry tracer provider initialized")
	}

	meterProvider, err := initMeterProvider(ctx, cfg, res)
	if err != nil {
		log.Printf("Warning: failed to initialize meter provider: %v", err)
		log.Println("Service will continue without metrics export")
		meterProvider = nil
	} else {
		otel.SetMeterProvider(meterProvider)
		log.Println("✓ OpenTelemetry meter provider initialized")
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		config:         cfg,
	}, nil
}

func initTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlptracegrpc.WithTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	var sampler trace.Sampler
	switch cfg.TracesSampler {
	case "always_on":
		sampler = trace.AlwaysSample()
	case "always_off":
		sampler = trace.NeverSample()
	case "traceidratio":
		sampler = trace.TraceIDRatioBased(0.1)
	default:
		sampler = trace.AlwaysSample()
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSampler(sampler),
		trace.WithBatcher(traceExporter,
			trace.WithBatchTimeout(5*time.Second),
			trace.WithMaxExportBatchSize(512),
		),
	)

	return tracerProvider, nil
}

func initMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlpmetricgrpc.WithTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(cfg.MetricsInterval),
		)),
	)

	return meterProvider, nil
}

// Shutdown gracefully shuts down the OpenTelemetry providers
func (p *Provider) Shutdown(ctx context.Context) error {
	log.Println("Shutting down OpenTelemetry providers...")

	var err error

	if p.TracerProvider != nil {
		if shutdownErr := p.TracerProvider.Shutdown(ctx); shutdownErr != nil {
			log.Printf("Error shutting down tracer provider: %v", shutdownErr)
			err = shutdownErr
		}
	}

	if p.MeterProvider != nil {
		if shutdownErr := p.MeterProvider.Shutdown(ctx); shutdownErr != nil {
			log.Printf("Error shutting down meter provider: %v", shutdownErr)
			if err == nil {
				err = shutdownErr
			}
		}
	}

	return err
}

package tracing

import (
	"fmt"
	"net/http"

	xray "contrib.go.opencensus.io/exporter/aws"
	"contrib.go.opencensus.io/exporter/jaeger"
	ocprometheus "contrib.go.opencensus.io/exporter/prometheus"
	"contrib.go.opencensus.io/exporter/stackdriver"
	oczipkin "contrib.go.opencensus.io/exporter/zipkin"
	"contrib.go.opencensus.io/integrations/ocsql"
	datadog "github.com/DataDog/opencensus-go-exporter-datadog"
	openzipkin "github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/localpulse/localpulse/pkg/logger"
)

// Config controls trace and metrics exporters. Exporters are opt-in; with
// everything disabled the application runs untraced.
type Config struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// TraceExporter selects the trace backend: jaeger, zipkin, stackdriver,
	// datadog, xray or none.
	TraceExporter string

	// MetricsExporter selects the metrics backend: prometheus, stackdriver,
	// datadog or none.
	MetricsExporter string

	JaegerEndpoint       string
	ZipkinEndpoint       string
	StackdriverProjectID string
	DatadogAgentAddress  string
	PrometheusNamespace  string
}

// Tracer holds initialized exporters and their shutdown hooks.
type Tracer struct {
	// PrometheusHandler is non-nil when the prometheus metrics exporter is
	// enabled; mount it on /metrics.
	PrometheusHandler http.Handler

	shutdownFuncs []func()
}

// InitTracing configures OpenCensus trace and metrics exporters from config.
func InitTracing(cfg *Config, log logger.Logger) (*Tracer, error) {
	t := &Tracer{}

	if !cfg.Enabled {
		return t, nil
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(cfg.SamplingProbability),
	})

	if err := t.initTraceExporter(cfg, log); err != nil {
		return nil, err
	}
	if err := t.initMetricsExporter(cfg, log); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Tracer) initTraceExporter(cfg *Config, log logger.Logger) error {
	switch cfg.TraceExporter {
	case "", "none":
		return nil

	case "jaeger":
		exporter, err := jaeger.NewExporter(jaeger.Options{
			CollectorEndpoint: cfg.JaegerEndpoint,
			Process:           jaeger.Process{ServiceName: cfg.ServiceName},
		})
		if err != nil {
			return fmt.Errorf("failed to create jaeger exporter: %w", err)
		}
		trace.RegisterExporter(exporter)
		t.shutdownFuncs = append(t.shutdownFuncs, exporter.Flush)

	case "zipkin":
		reporter := zipkinhttp.NewReporter(cfg.ZipkinEndpoint)
		endpoint, err := openzipkin.NewEndpoint(cfg.ServiceName, "")
		if err != nil {
			return fmt.Errorf("failed to create zipkin endpoint: %w", err)
		}
		trace.RegisterExporter(oczipkin.NewExporter(reporter, endpoint))
		t.shutdownFuncs = append(t.shutdownFuncs, func() { _ = reporter.Close() })

	case "stackdriver":
		exporter, err := stackdriver.NewExporter(stackdriver.Options{
			ProjectID: cfg.StackdriverProjectID,
		})
		if err != nil {
			return fmt.Errorf("failed to create stackdriver exporter: %w", err)
		}
		trace.RegisterExporter(exporter)
		t.shutdownFuncs = append(t.shutdownFuncs, exporter.Flush)

	case "datadog":
		exporter, err := datadog.NewExporter(datadog.Options{
			Service:   cfg.ServiceName,
			TraceAddr: cfg.DatadogAgentAddress,
		})
		if err != nil {
			return fmt.Errorf("failed to create datadog exporter: %w", err)
		}
		trace.RegisterExporter(exporter)
		t.shutdownFuncs = append(t.shutdownFuncs, exporter.Stop)

	case "xray":
		exporter, err := xray.NewExporter(xray.WithVersion("latest"))
		if err != nil {
			return fmt.Errorf("failed to create xray exporter: %w", err)
		}
		trace.RegisterExporter(exporter)
		t.shutdownFuncs = append(t.shutdownFuncs, func() { _ = exporter.Close() })

	default:
		return fmt.Errorf("unknown trace exporter: %s", cfg.TraceExporter)
	}

	log.WithField("exporter", cfg.TraceExporter).Info("Trace exporter initialized")
	return nil
}

func (t *Tracer) initMetricsExporter(cfg *Config, log logger.Logger) error {
	switch cfg.MetricsExporter {
	case "", "none":
		return nil

	case "prometheus":
		exporter, err := ocprometheus.NewExporter(ocprometheus.Options{
			Namespace: cfg.PrometheusNamespace,
		})
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		view.RegisterExporter(exporter)
		t.PrometheusHandler = exporter

	case "stackdriver":
		exporter, err := stackdriver.NewExporter(stackdriver.Options{
			ProjectID: cfg.StackdriverProjectID,
		})
		if err != nil {
			return fmt.Errorf("failed to create stackdriver metrics exporter: %w", err)
		}
		view.RegisterExporter(exporter)
		t.shutdownFuncs = append(t.shutdownFuncs, exporter.Flush)

	case "datadog":
		exporter, err := datadog.NewExporter(datadog.Options{
			Service:   cfg.ServiceName,
			StatsAddr: cfg.DatadogAgentAddress,
		})
		if err != nil {
			return fmt.Errorf("failed to create datadog metrics exporter: %w", err)
		}
		view.RegisterExporter(exporter)
		t.shutdownFuncs = append(t.shutdownFuncs, exporter.Stop)

	default:
		return fmt.Errorf("unknown metrics exporter: %s", cfg.MetricsExporter)
	}

	log.WithField("exporter", cfg.MetricsExporter).Info("Metrics exporter initialized")
	return nil
}

// Shutdown flushes and stops all registered exporters.
func (t *Tracer) Shutdown() {
	for _, fn := range t.shutdownFuncs {
		fn()
	}
}

// RegisterSQLDriver wraps the postgres driver with OpenCensus instrumentation
// and returns the driver name to pass to sql.Open. When tracing is disabled
// the plain lib/pq driver name is returned.
func RegisterSQLDriver(enabled bool) (string, error) {
	if !enabled {
		return "postgres", nil
	}

	driverName, err := ocsql.Register("postgres",
		ocsql.WithAllTraceOptions(),
		ocsql.WithInstanceName("localpulse"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to register ocsql driver: %w", err)
	}
	return driverName, nil
}

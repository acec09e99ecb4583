package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/viaphoton/e2e-harness/report"
)

const (
	MetricsNamespace = "e2e"

	// JobName is the Pushgateway job the run statistics are grouped under.
	JobName = "e2e_harness"
)

// Run identifies the run a set of statistics belongs to.
type Run struct {
	ID          string
	Environment string
	TestSet     string
	FinishedAt  time.Time
}

// NewRun ...
func NewRun(environment, testSet string) Run {
	return Run{
		ID:          uuid.NewString(),
		Environment: environment,
		TestSet:     testSet,
		FinishedAt:  time.Now(),
	}
}

// Pusher ...
type Pusher interface {
	Push(ctx context.Context, run Run, stats report.Stats) error
}

type pushgateway struct {
	url        string
	httpClient *http.Client
}

// NewPusher ...
func NewPusher(url string) Pusher {
	return NewPusherWithHTTPClient(url, cleanhttp.DefaultClient())
}

// NewPusherWithHTTPClient ...
func NewPusherWithHTTPClient(url string, httpClient *http.Client) Pusher {
	return &pushgateway{
		url:        url,
		httpClient: httpClient,
	}
}

// Push replaces the metrics of the run's environment and test set group on the gateway.
func (p *pushgateway) Push(ctx context.Context, run Run, stats report.Stats) error {
	pusher := push.New(p.url, JobName).
		Client(p.httpClient).
		Grouping("environment", run.Environment).
		Grouping("test_set", run.TestSet)
	for _, c := range collectors(run, stats) {
		pusher = pusher.Collector(c)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push run statistics to %s: %w", p.url, err)
	}
	return nil
}

func collectors(run Run, stats report.Stats) []prometheus.Collector {
	tests := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "tests",
		Help:      "Number of test cases of the last run by result",
	}, []string{
		"run_id",
		"result",
	})
	tests.WithLabelValues(run.ID, "total").Set(float64(stats.Tests))
	tests.WithLabelValues(run.ID, "passed").Set(float64(stats.Passed))
	tests.WithLabelValues(run.ID, "failed").Set(float64(stats.Failed))
	tests.WithLabelValues(run.ID, "skipped").Set(float64(stats.Skipped))

	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "duration_seconds",
		Help:      "Duration of the last run",
	}, []string{
		"run_id",
	})
	duration.WithLabelValues(run.ID).Set(stats.Duration.Seconds())

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})
	lastRun.Set(float64(run.FinishedAt.Unix()))

	return []prometheus.Collector{tests, duration, lastRun}
}

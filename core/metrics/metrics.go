// Package metrics collects and exposes Prometheus metrics for the bot.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface handlers and services use to report events.
type Recorder interface {
	RecordUpdate(kind string)
	RecordHandler(name string, err error)
	RecordTaskCompleted(kind string)
	RecordClaimGranted()
	RecordReferralLinked()
	RecordQuizFinished(passed bool)
}

// Collector implements Recorder on top of Prometheus counters.
type Collector struct {
	updates      *prometheus.CounterVec
	handlers     *prometheus.CounterVec
	tasksDone    *prometheus.CounterVec
	claims       prometheus.Counter
	referrals    prometheus.Counter
	quizOutcomes *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphbot_updates_total",
			Help: "Inbound Telegram updates by kind.",
		}, []string{"kind"}),
		handlers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphbot_handler_total",
			Help: "Handler invocations by name and status.",
		}, []string{"handler", "status"}),
		tasksDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphbot_tasks_completed_total",
			Help: "Airdrop tasks newly completed, by task kind.",
		}, []string{"task_kind"}),
		claims: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphbot_airdrop_claims_total",
			Help: "Airdrop claims granted.",
		}),
		referrals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphbot_referrals_linked_total",
			Help: "Referral links established.",
		}),
		quizOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphbot_quiz_finished_total",
			Help: "Finished quiz sessions by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(c.updates, c.handlers, c.tasksDone, c.claims, c.referrals, c.quizOutcomes)
	}
	return c
}

// RecordUpdate counts one inbound update of the given kind.
func (c *Collector) RecordUpdate(kind string) {
	c.updates.WithLabelValues(kind).Inc()
}

// RecordHandler counts one handler invocation with its resulting status.
func (c *Collector) RecordHandler(name string, err error) {
	status := "ok"
	if err != nil {
		status = "fail"
	}
	c.handlers.WithLabelValues(name, status).Inc()
}

// RecordTaskCompleted counts a newly completed task.
func (c *Collector) RecordTaskCompleted(kind string) {
	c.tasksDone.WithLabelValues(kind).Inc()
}

// RecordClaimGranted counts a granted airdrop claim.
func (c *Collector) RecordClaimGranted() {
	c.claims.Inc()
}

// RecordReferralLinked counts an established referral link.
func (c *Collector) RecordReferralLinked() {
	c.referrals.Inc()
}

// RecordQuizFinished counts a finished quiz session by outcome.
func (c *Collector) RecordQuizFinished(passed bool) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	c.quizOutcomes.WithLabelValues(outcome).Inc()
}

// Nop returns a Recorder that discards everything; useful in tests and
// when the metrics endpoint is disabled.
func Nop() Recorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) RecordUpdate(string)         {}
func (nopRecorder) RecordHandler(string, error) {}
func (nopRecorder) RecordTaskCompleted(string)  {}
func (nopRecorder) RecordClaimGranted()         {}
func (nopRecorder) RecordReferralLinked()       {}
func (nopRecorder) RecordQuizFinished(bool)     {}

// Serve exposes the /metrics endpoint until ctx is done.
func Serve(ctx context.Context, listen string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

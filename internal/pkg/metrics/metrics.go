// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "schoolcore"

var (
	unitOfWorkTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unit_of_work_total",
		Help:      "Units of work by name and outcome (committed, aborted).",
	}, []string{"name", "outcome"})

	unitOfWorkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "unit_of_work_duration_seconds",
		Help:      "Wall time of units of work.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"name"})

	ledgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_operations_total",
		Help:      "Ledger upserts by ledger and operation.",
	}, []string{"ledger", "operation"})

	lateFineJobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "late_fine_job_runs_total",
		Help:      "Scheduled late fine runs by outcome.",
	}, []string{"outcome"})

	lateFinesImposed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "late_fines_imposed_total",
		Help:      "Late fines imposed by the scheduler.",
	})
)

// ObserveUnitOfWork records the outcome and duration of a unit of work.
func ObserveUnitOfWork(name string, started time.Time, err error) {
	outcome := "committed"
	if err != nil {
		outcome = "aborted"
	}
	unitOfWorkTotal.WithLabelValues(name, outcome).Inc()
	unitOfWorkDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
}

// LedgerOperation counts one ledger write.
func LedgerOperation(ledger, operation string) {
	ledgerOperationsTotal.WithLabelValues(ledger, operation).Inc()
}

// LateFineJobRun counts a scheduler run and the fines it imposed.
func LateFineJobRun(imposed int, err error) {
	if err != nil {
		lateFineJobRuns.WithLabelValues("failed").Inc()
	} else {
		lateFineJobRuns.WithLabelValues("succeeded").Inc()
	}
	lateFinesImposed.Add(float64(imposed))
}

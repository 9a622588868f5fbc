package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUnitOfWork(t *testing.T) {
	before := testutil.ToFloat64(unitOfWorkTotal.WithLabelValues("metrics-test", "aborted"))

	ObserveUnitOfWork("metrics-test", time.Now(), errors.New("rolled back"))
	ObserveUnitOfWork("metrics-test", time.Now(), nil)

	assert.Equal(t, before+1, testutil.ToFloat64(unitOfWorkTotal.WithLabelValues("metrics-test", "aborted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(unitOfWorkTotal.WithLabelValues("metrics-test", "committed")))
}

func TestLateFineJobRun(t *testing.T) {
	before := testutil.ToFloat64(lateFinesImposed)

	LateFineJobRun(3, nil)

	assert.Equal(t, before+3, testutil.ToFloat64(lateFinesImposed))
}

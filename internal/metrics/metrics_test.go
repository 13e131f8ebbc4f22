package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsCartMutations(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncCartMutation("add")
	m.IncCartMutation("add")
	m.IncCartMutation("")
	m.IncPersistFailure("save")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartMutations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartMutations.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures.WithLabelValues("save")))
}

func TestMetrics_ObserveCommerce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCommerce("products.get", 200, 20*time.Millisecond)
	m.ObserveCommerce("products.get", 0, time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.commerceLatency))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncCartMutation("add")
		m.IncPersistFailure("save")
		m.ObserveCommerce("x", 500, time.Millisecond)
	})
	assert.Nil(t, New(nil))
}

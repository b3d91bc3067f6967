package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHitMiss(t *testing.T) {
	before := testutil.ToFloat64(CacheRequests.WithLabelValues("test-cache", "hit"))
	Hit("test-cache")
	Hit("test-cache")
	Miss("test-cache")

	assert.Equal(t, before+2, testutil.ToFloat64(CacheRequests.WithLabelValues("test-cache", "hit")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(CacheRequests.WithLabelValues("test-cache", "miss")), 1.0)
}

func TestObserveStoreQuery_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("test-op"))

	ObserveStoreQuery("test-op", time.Now(), nil)
	ObserveStoreQuery("test-op", time.Now(), errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(StoreQueryErrors.WithLabelValues("test-op")))
}

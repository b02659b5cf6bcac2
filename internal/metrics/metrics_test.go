package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPaymentsTotal(t *testing.T) {
	before := testutil.ToFloat64(PaymentsTotal.WithLabelValues("declined"))
	PaymentsTotal.WithLabelValues("declined").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PaymentsTotal.WithLabelValues("declined")))
}

func TestCollectorsLint(t *testing.T) {
	problems, err := testutil.CollectAndLint(TripsCreatedTotal)
	assert.NoError(t, err)
	assert.Empty(t, problems)
}

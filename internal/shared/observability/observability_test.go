package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer.Start(context.Background(), "noop")
	span.End()
}

func TestMetrics_Counters(t *testing.T) {
	before := testutil.ToFloat64(RuleFailuresTotal.WithLabelValues("sample"))
	RuleFailuresTotal.WithLabelValues("sample").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RuleFailuresTotal.WithLabelValues("sample")))
}

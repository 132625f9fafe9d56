package otel

import (
	"context"
	"testing"

	regkit "github.com/markoua/regkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	snapshot regkit.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() regkit.MetricsSnapshot {
	return f.snapshot
}

func (f *fakeSource) AuditDropped() uint64 {
	return f.dropped
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("regkit-test")

	src := &fakeSource{
		snapshot: regkit.MetricsSnapshot{
			Counters: map[regkit.MetricID]uint64{
				regkit.MetricLoginSuccess: 3,
			},
		},
		dropped: 1,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, exp.Close())
	}()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.NotEmpty(t, rm.ScopeMetrics)
}

func TestExporterRejectsNilSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("regkit-test")

	_, err := NewOTelExporterFromSource(meter, nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestExporterRejectsNilMeter(t *testing.T) {
	_, err := NewOTelExporterFromSource(nil, &fakeSource{})
	assert.ErrorIs(t, err, ErrNilMeter)
}

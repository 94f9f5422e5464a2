package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/metrics"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestRecord_SetsAllGauges(t *testing.T) {
	r := metrics.New("run-1")
	r.Record(5, 1.5, 0.9, 0.75, 2, 3.2)

	require.Equal(t, 5.0, gaugeValue(t, r.Generation))
	require.Equal(t, 1.5, gaugeValue(t, r.BestFitness))
	require.Equal(t, 0.9, gaugeValue(t, r.MeanFitness))
	require.Equal(t, 0.75, gaugeValue(t, r.OccupancyPct))
	require.Equal(t, 2.0, gaugeValue(t, r.Conflicts))
	require.Equal(t, 3.2, gaugeValue(t, r.ElapsedSec))
}

func TestNew_RegistersIntoOwnRegistry(t *testing.T) {
	r := metrics.New("run-2")
	families, err := r.Registerer().Gather()
	require.NoError(t, err)
	require.Len(t, families, 6)
}

// Package metrics exposes per-generation progress figures through a
// prometheus.Registry owned by one engine run, so an embedding service
// can scrape them without the engine itself opening a port.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles one run's gauges. Gauges, not counters: each generation
// replaces the previous one's values rather than accumulating them.
type Registry struct {
	reg *prometheus.Registry

	BestFitness  prometheus.Gauge
	MeanFitness  prometheus.Gauge
	Generation   prometheus.Gauge
	OccupancyPct prometheus.Gauge
	Conflicts    prometheus.Gauge
	ElapsedSec   prometheus.Gauge
}

// New builds a fresh Registry labeled with runID, so multiple concurrent
// engine runs embedded in the same process don't collide on metric
// identity.
func New(runID string) *Registry {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"run_id": runID}

	r := &Registry{
		reg: reg,
		BestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetable_engine", Name: "best_fitness", Help: "Fitness of the best individual in the current generation.", ConstLabels: labels,
		}),
		MeanFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetable_engine", Name: "mean_fitness", Help: "Mean fitness across the current population.", ConstLabels: labels,
		}),
		Generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetable_engine", Name: "generation", Help: "Generations completed so far.", ConstLabels: labels,
		}),
		OccupancyPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetable_engine", Name: "occupancy_pct", Help: "Fraction of schedulable cells filled in the best individual.", ConstLabels: labels,
		}),
		Conflicts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetable_engine", Name: "conflicts", Help: "Hard-violation count of the best individual.", ConstLabels: labels,
		}),
		ElapsedSec: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetable_engine", Name: "elapsed_seconds", Help: "Wall-clock seconds elapsed in the current run.", ConstLabels: labels,
		}),
	}

	reg.MustRegister(r.BestFitness, r.MeanFitness, r.Generation, r.OccupancyPct, r.Conflicts, r.ElapsedSec)
	return r
}

// Registerer exposes the underlying registry for a caller that wants to
// gather it into an HTTP /metrics handler (owned by the out-of-scope
// adapter layer, not by this engine).
func (r *Registry) Registerer() *prometheus.Registry {
	return r.reg
}

// Record copies one generation's figures into the gauges.
func (r *Registry) Record(generation int, bestFitness, meanFitness, occupancyPct float64, conflicts int, elapsedSeconds float64) {
	r.Generation.Set(float64(generation))
	r.BestFitness.Set(bestFitness)
	r.MeanFitness.Set(meanFitness)
	r.OccupancyPct.Set(occupancyPct)
	r.Conflicts.Set(float64(conflicts))
	r.ElapsedSec.Set(elapsedSeconds)
}

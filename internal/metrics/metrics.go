// Package metrics exports distribution and search statistics as Prometheus
// collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"ascigo/internal/dist"
)

// Recorder holds the collectors for one process. Register it with a
// prometheus.Registerer before serving.
type Recorder struct {
	rankLoad     *prometheus.GaugeVec
	units        *prometheus.GaugeVec
	totalWork    prometheus.Gauge
	imbalance    prometheus.Gauge
	stddev       prometheus.Gauge
	maxUnit      prometheus.Gauge
	threshold    prometheus.Gauge
	splitCount   *prometheus.GaugeVec
	distSeconds  *prometheus.GaugeVec
	contribs     *prometheus.CounterVec
	searchedDets prometheus.Counter
}

// NewRecorder creates unregistered collectors under the given namespace.
func NewRecorder(namespace string) *Recorder {
	return &Recorder{
		rankLoad: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rank_load",
			Help:      "Estimated determinants assigned to each rank.",
		}, []string{"rank"}),
		units: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_units",
			Help:      "Constraints in the plan by kind.",
		}, []string{"kind"}),
		totalWork: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_total_work",
			Help:      "Estimated determinants over all ranks.",
		}),
		imbalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_imbalance",
			Help:      "Largest rank load divided by the mean load.",
		}),
		stddev: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_load_stddev",
			Help:      "Population standard deviation of rank loads.",
		}),
		maxUnit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_max_unit",
			Help:      "Cost of the heaviest constraint.",
		}),
		threshold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_split_threshold",
			Help:      "Cost above which triplets were split.",
		}),
		splitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_heavy_triplets",
			Help:      "Triplets above the split threshold by outcome.",
		}, []string{"outcome"}),
		distSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_stage_seconds",
			Help:      "Wall time of each distribution stage.",
		}, []string{"stage"}),
		contribs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_contributions_total",
			Help:      "Contributions generated by excitation class.",
		}, []string{"class"}),
		searchedDets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_determinants_total",
			Help:      "Wavefunction determinants processed by the search.",
		}),
	}
}

// Register adds every collector to reg.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		r.rankLoad, r.units, r.totalWork, r.imbalance, r.stddev, r.maxUnit,
		r.threshold, r.splitCount, r.distSeconds, r.contribs, r.searchedDets,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObservePlan sets the plan gauges from p.
func (r *Recorder) ObservePlan(p *dist.Plan) {
	s := p.Summary()
	r.rankLoad.Reset()
	for rank, l := range s.Loads {
		r.rankLoad.WithLabelValues(strconv.Itoa(rank)).Set(float64(l))
	}
	r.units.WithLabelValues("triplet").Set(float64(s.Triplets))
	r.units.WithLabelValues("quad").Set(float64(s.Quads))
	r.totalWork.Set(float64(s.Total))
	r.imbalance.Set(s.Imbalance)
	r.stddev.Set(s.StdDev)
	r.maxUnit.Set(float64(s.MaxUnit))
	r.threshold.Set(float64(s.Threshold))
	r.splitCount.WithLabelValues("split").Set(float64(s.Split))
	r.splitCount.WithLabelValues("unsplittable").Set(float64(s.Unsplittable))
	r.distSeconds.WithLabelValues("scan").Set(p.Timings.Scan.Seconds())
	r.distSeconds.WithLabelValues("split").Set(p.Timings.Split.Seconds())
	r.distSeconds.WithLabelValues("assign").Set(p.Timings.Assign.Seconds())
}

// AddContributions counts n contributions of one excitation class.
func (r *Recorder) AddContributions(class string, n int) {
	r.contribs.WithLabelValues(class).Add(float64(n))
}

// AddDeterminants counts n processed wavefunction determinants.
func (r *Recorder) AddDeterminants(n int) {
	r.searchedDets.Add(float64(n))
}

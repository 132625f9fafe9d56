// Package prometheus exposes the engine counters as a
// prometheus.Collector for registration in any client_golang registry.
package prometheus

import (
	regkit "github.com/markoua/regkit"
	"github.com/markoua/regkit/metrics/export/internaldefs"
	prom "github.com/prometheus/client_golang/prometheus"
)

// MetricsSource is the read surface the collector pulls from. An
// *regkit.Engine satisfies it.
type MetricsSource interface {
	MetricsSnapshot() regkit.MetricsSnapshot
	AuditDropped() uint64
}

type counterDesc struct {
	id   regkit.MetricID
	desc *prom.Desc
}

// Collector renders the engine counters on every scrape. It holds no
// state of its own; concurrency safety comes from the engine's atomic
// snapshot.
type Collector struct {
	source   MetricsSource
	counters []counterDesc
	dropped  *prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector reads from an engine.
func NewCollector(engine *regkit.Engine) *Collector {
	return NewCollectorFromSource(engine)
}

// NewCollectorFromSource reads from a custom MetricsSource.
func NewCollectorFromSource(source MetricsSource) *Collector {
	c := &Collector{
		source:   source,
		counters: make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		dropped:  prom.NewDesc(internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, nil, nil),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, counterDesc{
			id:   def.ID,
			desc: prom.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	return c
}

// Describe implements prom.Collector.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	for _, counter := range c.counters {
		ch <- counter.desc
	}
	ch <- c.dropped
}

// Collect implements prom.Collector.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	if c == nil || c.source == nil {
		return
	}

	snapshot := c.source.MetricsSnapshot()
	for _, counter := range c.counters {
		ch <- prom.MustNewConstMetric(counter.desc, prom.CounterValue, float64(snapshot.Counters[counter.id]))
	}
	ch <- prom.MustNewConstMetric(c.dropped, prom.CounterValue, float64(c.source.AuditDropped()))
}

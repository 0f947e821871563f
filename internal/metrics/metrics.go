// Package metrics is the instrumentation port for the scheduling core.
// The original system kept process-wide call counters; here they are an
// explicit interface injected into the service, with a no-op
// implementation for tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder interface {
	IncGenerateRequests()
	IncShiftCreateRequests()
	AddShiftsUpserted(n int64)
	AddShiftsDeleted(n int64)
	AddOrphanShiftsRemoved(n int64)
}

type Noop struct{}

func (Noop) IncGenerateRequests()         {}
func (Noop) IncShiftCreateRequests()      {}
func (Noop) AddShiftsUpserted(int64)      {}
func (Noop) AddShiftsDeleted(int64)       {}
func (Noop) AddOrphanShiftsRemoved(int64) {}

type Prometheus struct {
	generateRequests    prometheus.Counter
	shiftCreateRequests prometheus.Counter
	shiftsUpserted      prometheus.Counter
	shiftsDeleted       prometheus.Counter
	orphansRemoved      prometheus.Counter
}

func NewPrometheus() *Prometheus {
	return &Prometheus{
		generateRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shift_planner_generate_requests_total",
			Help: "Total number of schedule generation requests",
		}),
		shiftCreateRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shift_planner_shift_create_requests_total",
			Help: "Total number of single shift create requests",
		}),
		shiftsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shift_planner_shifts_upserted_total",
			Help: "Total number of newly inserted shift rows",
		}),
		shiftsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shift_planner_shifts_deleted_total",
			Help: "Total number of shift rows removed by cascade deletion",
		}),
		orphansRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shift_planner_orphan_shifts_removed_total",
			Help: "Total number of orphaned shift rows removed by sweeps",
		}),
	}
}

func (p *Prometheus) IncGenerateRequests()           { p.generateRequests.Inc() }
func (p *Prometheus) IncShiftCreateRequests()        { p.shiftCreateRequests.Inc() }
func (p *Prometheus) AddShiftsUpserted(n int64)      { p.shiftsUpserted.Add(float64(n)) }
func (p *Prometheus) AddShiftsDeleted(n int64)       { p.shiftsDeleted.Add(float64(n)) }
func (p *Prometheus) AddOrphanShiftsRemoved(n int64) { p.orphansRemoved.Add(float64(n)) }

// Package report aggregates persisted shifts into per-agent billing
// summaries. Money math goes through shopspring/decimal so per-shift
// rounding never compounds across a large period.
package report

import (
	"time"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/shopspring/decimal"
)

type Item struct {
	Date   string  `json:"date"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Hours  float64 `json:"hours"`
	Amount float64 `json:"amount"`
}

type Row struct {
	AgentName   string  `json:"agentName"`
	TotalHours  float64 `json:"totalHours"`
	TotalAmount float64 `json:"totalAmount"`
	Items       []Item  `json:"items"`
}

type Range struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Report struct {
	Range            Range     `json:"range"`
	GeneratedAt      time.Time `json:"generatedAt"`
	Summary          []Row     `json:"summary"`
	GrandTotalHours  float64   `json:"grandTotalHours"`
	GrandTotalAmount float64   `json:"grandTotalAmount"`
}

type accumulator struct {
	agentName string
	hours     decimal.Decimal
	amount    decimal.Decimal
	items     []Item
}

// Aggregate joins shifts to agents by canonicalized agent reference and
// sums hours and pay per agent. A shift whose agent no longer exists is
// still reported, labeled with the raw reference and priced at rate 0.
//
// The per-shift amount is rounded to 2 decimals before accumulation;
// grand totals are rounded once more at output. Each agent appears in
// the summary exactly once, in order of first appearance.
func Aggregate(shifts []*domain.Shift, agents []*domain.Agent, startDate, endDate string) *Report {
	rates := make(map[string]*domain.Agent, len(agents))
	for _, a := range agents {
		rates[a.ID] = a
	}

	order := make([]string, 0, len(agents))
	totals := make(map[string]*accumulator)

	for _, s := range shifts {
		ref := domain.CanonicalRef(s.AgentRef)

		acc, ok := totals[ref]
		if !ok {
			name := s.AgentRef
			if agent, found := rates[ref]; found {
				name = agent.Name
			}
			acc = &accumulator{agentName: name}
			totals[ref] = acc
			order = append(order, ref)
		}

		var rate decimal.Decimal
		if agent, found := rates[ref]; found {
			rate = decimal.NewFromFloat(agent.HourlyRate)
		}

		hours := decimal.NewFromFloat(s.DurationHours)
		amount := rate.Mul(hours).Round(2)

		acc.hours = acc.hours.Add(hours)
		acc.amount = acc.amount.Add(amount)
		acc.items = append(acc.items, Item{
			Date:   s.Date,
			Start:  s.Start,
			End:    s.End,
			Hours:  s.DurationHours,
			Amount: amount.InexactFloat64(),
		})
	}

	rep := &Report{
		Range:       Range{StartDate: startDate, EndDate: endDate},
		GeneratedAt: time.Now(),
		Summary:     make([]Row, 0, len(order)),
	}

	grandHours := decimal.Zero
	grandAmount := decimal.Zero
	for _, ref := range order {
		acc := totals[ref]
		grandHours = grandHours.Add(acc.hours)
		grandAmount = grandAmount.Add(acc.amount)
		rep.Summary = append(rep.Summary, Row{
			AgentName:   acc.agentName,
			TotalHours:  acc.hours.Round(2).InexactFloat64(),
			TotalAmount: acc.amount.Round(2).InexactFloat64(),
			Items:       acc.items,
		})
	}

	rep.GrandTotalHours = grandHours.Round(2).InexactFloat64()
	rep.GrandTotalAmount = grandAmount.Round(2).InexactFloat64()

	return rep
}

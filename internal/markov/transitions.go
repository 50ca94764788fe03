package markov

import (
	"fmt"
	"sort"
	"strings"
)

// Transition kinds as persisted by the storage layer.
const (
	KindCategory = "category"
	KindName     = "name"
)

// Transition is one persisted count row. Category rows rebuild the
// per-order layers; name rows rebuild the function-name observations.
type Transition struct {
	Kind  string
	Order int
	State string
	Next  string
	Count int
}

// Export flattens the trained model into transition rows for persistence.
// Rows come out in a stable order.
func (m *Model) Export() []Transition {
	var rows []Transition

	for _, l := range m.layers {
		for state, nexts := range l.transitions {
			for next, count := range nexts {
				rows = append(rows, Transition{
					Kind:  KindCategory,
					Order: l.order,
					State: state,
					Next:  next,
					Count: count,
				})
			}
		}
	}
	for state, nexts := range m.names {
		order := 0
		if state != "" {
			order = strings.Count(state, stateSep) + 1
		}
		for name, count := range nexts {
			rows = append(rows, Transition{
				Kind:  KindName,
				Order: order,
				State: state,
				Next:  name,
				Count: count,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.State != b.State {
			return a.State < b.State
		}
		return a.Next < b.Next
	})
	return rows
}

// NewModelFromTransitions rebuilds a frozen model from persisted rows.
func NewModelFromTransitions(order int, rows []Transition) (*Model, error) {
	m, err := NewModel(order)
	if err != nil {
		return nil, err
	}

	layerByOrder := make(map[int]*layer, len(m.layers))
	for _, l := range m.layers {
		layerByOrder[l.order] = l
	}

	for _, row := range rows {
		if row.Count <= 0 {
			continue
		}
		switch row.Kind {
		case KindCategory:
			l, ok := layerByOrder[row.Order]
			if !ok {
				// Rows from a higher-order training run are ignored
				// rather than rejected, so order can be lowered in
				// config without retraining.
				continue
			}
			nexts, ok := l.transitions[row.State]
			if !ok {
				nexts = make(map[string]int)
				l.transitions[row.State] = nexts
			}
			nexts[row.Next] += row.Count
			l.totals[row.State] += row.Count

			m.alphabet[row.Next] = struct{}{}
			if row.State != "" {
				for _, sym := range strings.Split(row.State, stateSep) {
					m.alphabet[sym] = struct{}{}
				}
			}
		case KindName:
			nexts, ok := m.names[row.State]
			if !ok {
				nexts = make(map[string]int)
				m.names[row.State] = nexts
			}
			nexts[row.Next] += row.Count
			m.nameTot[row.State] += row.Count
		default:
			return nil, fmt.Errorf("markov: unknown transition kind %q", row.Kind)
		}
	}

	m.Freeze()
	return m, nil
}

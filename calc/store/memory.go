// Package store provides TableStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/juros-engine/calc"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (built-in tables, testing)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	schedules   map[calc.Category]calc.Schedule
	devaluation calc.DevaluationTable
}

func NewMemory(schedules map[calc.Category]calc.Schedule, table calc.DevaluationTable) *Memory {
	m := &Memory{schedules: make(map[calc.Category]calc.Schedule, len(schedules))}
	for c, s := range schedules {
		m.schedules[c] = copySchedule(s)
	}
	m.devaluation = copyTable(table)
	return m
}

func (m *Memory) Schedules(_ context.Context) (map[calc.Category]calc.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[calc.Category]calc.Schedule, len(m.schedules))
	for c, s := range m.schedules {
		result[c] = copySchedule(s)
	}
	return result, nil
}

func (m *Memory) Devaluation(_ context.Context) (calc.DevaluationTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyTable(m.devaluation), nil
}

// ReplaceSchedule validates s, then swaps it in.
func (m *Memory) ReplaceSchedule(_ context.Context, c calc.Category, s calc.Schedule) error {
	if err := s.Validate(c.String()); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[c] = copySchedule(s)
	return nil
}

// ReplaceDevaluation validates t, then swaps it in.
func (m *Memory) ReplaceDevaluation(_ context.Context, t calc.DevaluationTable) error {
	if err := t.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devaluation = copyTable(t)
	return nil
}

func copySchedule(s calc.Schedule) calc.Schedule {
	return s.Clone()
}

func copyTable(t calc.DevaluationTable) calc.DevaluationTable {
	ranges := make([]calc.DevaluationRange, len(t.Ranges))
	for i, r := range t.Ranges {
		if r.MinYear != nil {
			r.MinYear = calc.YearPtr(*r.MinYear)
		}
		if r.MaxYear != nil {
			r.MaxYear = calc.YearPtr(*r.MaxYear)
		}
		ranges[i] = r
	}
	t.Ranges = ranges
	return t
}

var _ calc.TableWriter = (*Memory)(nil)

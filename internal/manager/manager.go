// Package manager owns the closed registry of coordination architectures,
// the active-architecture switch, and the run history used for performance
// comparison.
package manager

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/parleyhq/parley/internal/engine"
	"github.com/parleyhq/parley/pkg/models"
)

// UnknownArchitectureError is returned when a caller names an architecture
// that was never registered.
type UnknownArchitectureError struct {
	// Name is the requested architecture.
	Name string
	// Known lists the registered architectures, in registration order.
	Known []string
}

func (e *UnknownArchitectureError) Error() string {
	return fmt.Sprintf("unknown architecture %q (known: %v)", e.Name, e.Known)
}

// ArchitectureInfo describes one registered engine for listing.
type ArchitectureInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Manager routes tasks to the active engine and records every run. All
// methods are safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	engines map[string]engine.Engine
	order   []string
	active  string
	records []models.PerformanceRecord
}

// New creates a manager with no engines registered.
func New() *Manager {
	return &Manager{engines: make(map[string]engine.Engine)}
}

// Register adds an engine under its own name. The first registered engine
// becomes the active one. Registering the same name twice replaces the
// engine without changing the registration order.
func (m *Manager) Register(e engine.Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := e.Name()
	if _, exists := m.engines[name]; !exists {
		m.order = append(m.order, name)
	}
	m.engines[name] = e
	if m.active == "" {
		m.active = name
	}
}

// SetArchitecture switches the active engine. On an unknown name the active
// engine is left unchanged and an UnknownArchitectureError is returned.
func (m *Manager) SetArchitecture(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.engines[name]; !ok {
		return &UnknownArchitectureError{Name: name, Known: append([]string(nil), m.order...)}
	}
	m.active = name
	log.Printf("[manager] active architecture set to %s", name)
	return nil
}

// Active returns the name of the active architecture.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// ListArchitectures describes every registered engine in registration order.
func (m *Manager) ListArchitectures() []ArchitectureInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ArchitectureInfo, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, ArchitectureInfo{
			Name:        name,
			Description: m.engines[name].Describe(),
			Active:      name == m.active,
		})
	}
	return out
}

// ProcessTask runs the task through the active engine. Engine faults never
// escape: errors and panics are captured into a failed result, and every
// run, failed or not, appends a performance record.
func (m *Manager) ProcessTask(ctx context.Context, task models.Task) *models.ArchitectureResult {
	m.mu.Lock()
	name := m.active
	eng := m.engines[name]
	m.mu.Unlock()

	start := time.Now()
	result := m.run(ctx, eng, name, task)
	result.ProcessingTimeSeconds = time.Since(start).Seconds()

	m.mu.Lock()
	m.records = append(m.records, models.PerformanceRecord{
		Architecture:    name,
		TaskID:          task.TaskID,
		DurationSeconds: result.ProcessingTimeSeconds,
		Success:         result.Success,
		TimestampUTC:    time.Now().UTC(),
	})
	m.mu.Unlock()

	log.Printf("[manager] processed %s with %s in %.2fs (success=%v)",
		task.TaskID, name, result.ProcessingTimeSeconds, result.Success)
	return result
}

func (m *Manager) run(ctx context.Context, eng engine.Engine, name string, task models.Task) (result *models.ArchitectureResult) {
	defer func() {
		if r := recover(); r != nil {
			result = &models.ArchitectureResult{
				ArchitectureUsed: name,
				ErrorMessage:     fmt.Sprintf("engine panic: %v", r),
			}
		}
	}()

	if eng == nil {
		return &models.ArchitectureResult{
			ErrorMessage: "no architecture registered",
		}
	}

	res, err := eng.Process(ctx, task)
	if err != nil {
		return &models.ArchitectureResult{
			ArchitectureUsed: name,
			ErrorMessage:     err.Error(),
		}
	}
	return res
}

// ComparePerformance aggregates recorded runs per architecture. Never-run
// architectures are omitted rather than reported as zeros.
func (m *Manager) ComparePerformance() map[string]models.ArchitectureStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	type agg struct {
		runs      int
		total     float64
		succeeded int
	}
	byArch := make(map[string]*agg)
	for _, rec := range m.records {
		a, ok := byArch[rec.Architecture]
		if !ok {
			a = &agg{}
			byArch[rec.Architecture] = a
		}
		a.runs++
		a.total += rec.DurationSeconds
		if rec.Success {
			a.succeeded++
		}
	}

	out := make(map[string]models.ArchitectureStats, len(byArch))
	for name, a := range byArch {
		out[name] = models.ArchitectureStats{
			Runs:               a.runs,
			AvgDurationSeconds: a.total / float64(a.runs),
			SuccessRate:        float64(a.succeeded) / float64(a.runs),
		}
	}
	return out
}

// History returns the most recent performance records, oldest first. A
// non-positive limit returns everything.
func (m *Manager) History(limit int) []models.PerformanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.records
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]models.PerformanceRecord, len(records))
	copy(out, records)
	return out
}

// Package week keeps the observed prices of the current week.
package week

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"TurnipSentinel/internal/model"
)

var (
	ErrInvalidSlot     = errors.New("invalid slot")
	ErrPriceOutOfRange = errors.New("price out of range")
)

// Manager guards the week's observation book and persists every change.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load week state: %w", err)
	}
	if state.StartedAt.IsZero() {
		state.StartedAt = time.Now()
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Series returns a copy of the observed prices.
func (m *Manager) Series() model.Series {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Prices
}

// State returns a copy of the full state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// Set records one observed price.
func (m *Manager) Set(slot model.Slot, price int) (model.Series, error) {
	if !slot.Valid() {
		return model.Series{}, fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}
	if err := checkPrice(slot, price); err != nil {
		return model.Series{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Prices.Set(slot, price)
	return m.state.Prices, m.save()
}

// Clear forgets the price observed at slot.
func (m *Manager) Clear(slot model.Slot) (model.Series, error) {
	if !slot.Valid() {
		return model.Series{}, fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Prices.Clear(slot)
	return m.state.Prices, m.save()
}

// Replace overwrites the whole week with series. Every known price must be
// in (0, model.MaxPrice].
func (m *Manager) Replace(series model.Series) error {
	if err := ValidateSeries(series); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Prices = series
	return m.save()
}

// Reset starts a new week and returns the prices of the one that ended.
func (m *Manager) Reset() (model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Prices
	m.state.Prices = model.Series{}
	m.state.StartedAt = time.Now()
	if err := m.save(); err != nil {
		return prev, err
	}
	log.Info().Int("observed", prev.Count()).Msg("week reset")
	return prev, nil
}

// ValidateSeries reports the first known price outside (0, model.MaxPrice].
func ValidateSeries(series model.Series) error {
	for slot := model.SlotSun; slot < model.SlotCount; slot++ {
		if v, ok := series.Get(slot); ok {
			if err := checkPrice(slot, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkPrice(slot model.Slot, price int) error {
	if price <= model.MinPrice || price > model.MaxPrice {
		return fmt.Errorf("%w: %s=%d not in (%d,%d]", ErrPriceOutOfRange, slot, price, model.MinPrice, model.MaxPrice)
	}
	return nil
}

// save must be called with mu held.
func (m *Manager) save() error {
	if err := SaveState(m.filePath, m.state); err != nil {
		return fmt.Errorf("save week state: %w", err)
	}
	return nil
}

package season

import (
	"log"
	"sync"

	"SquadSentinel/internal/engine"
	"SquadSentinel/internal/model"
)

// Manager owns the durable season state (roster, transfer bank, chip
// inventory) between decision cycles, with concurrency safety. The
// decision cycle itself never touches disk; it receives a snapshot and
// hands back the next state, which the manager persists.
type Manager struct {
	mu       sync.Mutex
	state    *model.SeasonState
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string, budgetTenths, hitCost int) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	// Initialize if fresh state
	if state.BudgetTenths == 0 {
		state.Period = 1
		state.BudgetTenths = budgetTenths
		state.CashTenths = budgetTenths
		state.Transfers = model.TransferState{Bank: 1, HitCost: hitCost}
		state.Chips = model.NewChipInventory()
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Snapshot returns a deep copy of the current season state.
func (m *Manager) Snapshot() model.SeasonState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// HasRoster reports whether the season squad has been built yet.
func (m *Manager) HasRoster() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.Roster) > 0
}

// SetInitialRoster installs the season-opening squad and its spend.
func (m *Manager) SetInitialRoster(roster model.Roster, spendTenths int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Roster = roster.Clone()
	m.state.CashTenths = m.state.BudgetTenths - spendTenths

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save season state: %v", err)
	}
}

// Commit stores the post-decision state for the period just decided.
func (m *Manager) Commit(next model.SeasonState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := next.Clone()
	m.state = &clone

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save season state: %v", err)
	}
}

// AdvancePeriod moves to the next period and accrues one free transfer,
// saturating at the bank cap.
func (m *Manager) AdvancePeriod() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Period++
	if m.state.Transfers.Bank < engine.BankCap {
		m.state.Transfers.Bank++
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save season state after period advance: %v", err)
	}
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}

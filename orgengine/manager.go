package orgengine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/talentview/matchengine/match"
)

// Stores builds the profile source and criteria store for one
// organization. Deployments scope these however they like: separate
// database schemas, key prefixes, or plain in-memory stores in tests.
type Stores func(orgID string) (match.ProfileSource, match.CriteriaStore, error)

type orgEngine struct {
	orgID  string
	engine *match.Engine
}

// Manager keeps one isolated match.Engine per client organization.
// Each engine carries its own result cache, so invalidation in one
// organization never touches another's cached scores.
type Manager struct {
	engines map[string]*orgEngine
	stores  Stores
	opts    []match.Option
	log     *zap.Logger
	mu      sync.RWMutex
}

// NewManager creates a manager. The given options are applied to every
// engine it builds.
func NewManager(stores Stores, log *zap.Logger, opts ...match.Option) (*Manager, error) {
	if stores == nil {
		return nil, fmt.Errorf("stores factory is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		engines: make(map[string]*orgEngine),
		stores:  stores,
		opts:    opts,
		log:     log,
	}, nil
}

// Create builds and registers the engine for a new organization.
func (m *Manager) Create(orgID string) error {
	if err := ValidateOrgID(orgID); err != nil {
		return fmt.Errorf("invalid organization id %q: %w", orgID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[orgID]; exists {
		return fmt.Errorf("organization %s already exists", orgID)
	}

	engine, err := m.build(orgID)
	if err != nil {
		return err
	}
	m.engines[orgID] = &orgEngine{orgID: orgID, engine: engine}

	m.log.Info("organization engine created", zap.String("orgId", orgID))
	return nil
}

// Engine returns the engine for an organization.
func (m *Manager) Engine(orgID string) (*match.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	oe, exists := m.engines[orgID]
	if !exists {
		return nil, fmt.Errorf("organization %s not found", orgID)
	}
	return oe.engine, nil
}

// Reload rebuilds an organization's engine and swaps it in atomically.
// The fresh engine starts with an empty result cache, so every candidate
// is rescored against current data; callers already holding the old
// engine keep a consistent view until their next lookup.
func (m *Manager) Reload(orgID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[orgID]; !exists {
		return fmt.Errorf("organization %s not found", orgID)
	}

	engine, err := m.build(orgID)
	if err != nil {
		return err
	}
	m.engines[orgID] = &orgEngine{orgID: orgID, engine: engine}

	m.log.Info("organization engine reloaded", zap.String("orgId", orgID))
	return nil
}

// List returns all registered organization ids.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orgs := make([]string, 0, len(m.engines))
	for orgID := range m.engines {
		orgs = append(orgs, orgID)
	}
	return orgs
}

// Delete unregisters an organization's engine. Stored criteria and
// profiles are left untouched.
func (m *Manager) Delete(orgID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[orgID]; !exists {
		return fmt.Errorf("organization %s not found", orgID)
	}
	delete(m.engines, orgID)
	return nil
}

// build must be called with m.mu held.
func (m *Manager) build(orgID string) (*match.Engine, error) {
	profiles, criteria, err := m.stores(orgID)
	if err != nil {
		return nil, fmt.Errorf("building stores for organization %s: %w", orgID, err)
	}

	opts := append([]match.Option{match.WithLogger(m.log.With(zap.String("orgId", orgID)))}, m.opts...)
	engine, err := match.NewEngine(profiles, criteria, opts...)
	if err != nil {
		return nil, fmt.Errorf("building engine for organization %s: %w", orgID, err)
	}
	return engine, nil
}

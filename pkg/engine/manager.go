package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/erain9/ticklob/pkg/core"
	"github.com/erain9/ticklob/pkg/logging"
	"github.com/erain9/ticklob/pkg/messaging"
)

var (
	// ErrEngineExists is returned when creating an engine for a symbol
	// that already has one
	ErrEngineExists = errors.New("engine for this symbol already exists")

	// ErrEngineNotFound is returned when accessing a non-existent engine
	ErrEngineNotFound = errors.New("engine not found")
)

// EngineInfo contains metadata about a managed engine
type EngineInfo struct {
	Symbol    string
	CreatedAt time.Time
}

// Manager owns one Engine per instrument symbol. Creation and lookup
// are safe for concurrent use; driving an individual engine remains
// single-writer.
type Manager struct {
	mu      sync.RWMutex
	engines map[string]*Engine
	info    map[string]*EngineInfo
	sender  messaging.MessageSender
}

// NewManager creates an empty Manager. sender is handed to every
// engine it creates; nil disables publishing.
func NewManager(sender messaging.MessageSender) *Manager {
	return &Manager{
		engines: make(map[string]*Engine),
		info:    make(map[string]*EngineInfo),
		sender:  sender,
	}
}

// CreateEngine creates an engine for the symbol.
func (m *Manager) CreateEngine(ctx context.Context, symbol string, cfg core.Config) (*Engine, error) {
	logger := logging.FromContext(ctx).With().Str("symbol", symbol).Logger()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[symbol]; exists {
		logger.Error().Msg("Engine already exists")
		return nil, ErrEngineExists
	}

	eng, err := NewEngine(symbol, cfg, m.sender)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create engine")
		return nil, err
	}

	m.engines[symbol] = eng
	m.info[symbol] = &EngineInfo{
		Symbol:    symbol,
		CreatedAt: time.Now(),
	}

	logger.Info().
		Int64("min_price", int64(cfg.MinPrice)).
		Int64("max_price", int64(cfg.MaxPrice)).
		Int("pool_capacity", cfg.PoolCapacity).
		Msg("Created new engine")
	return eng, nil
}

// GetEngine returns the engine for the symbol.
func (m *Manager) GetEngine(symbol string) (*Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	eng, exists := m.engines[symbol]
	if !exists {
		return nil, ErrEngineNotFound
	}
	return eng, nil
}

// ListEngines returns metadata for every managed engine.
func (m *Manager) ListEngines() []*EngineInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]*EngineInfo, 0, len(m.info))
	for _, info := range m.info {
		infos = append(infos, info)
	}
	return infos
}

// RemoveEngine drops the engine for the symbol.
func (m *Manager) RemoveEngine(ctx context.Context, symbol string) error {
	logger := logging.FromContext(ctx).With().Str("symbol", symbol).Logger()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[symbol]; !exists {
		return ErrEngineNotFound
	}

	delete(m.engines, symbol)
	delete(m.info, symbol)
	logger.Info().Msg("Removed engine")
	return nil
}

// Package marketdata publishes aggregated depth snapshots to Redis.
// The publisher never touches the book itself: the owning thread hands
// it already-built level views, keeping the book single-writer.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erain9/ticklob/pkg/core"
	"github.com/erain9/ticklob/pkg/messaging"
)

// RedisOptions represents configuration options for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

var defaultOptions = &RedisOptions{
	Addr:     "localhost:6379",
	Password: "",
	DB:       0,
}

// SetDefaultRedisOptions sets the default options for Redis connections
func SetDefaultRedisOptions(options *RedisOptions) {
	defaultOptions = options
}

// GetRedisClient creates a new Redis client using the default options
func GetRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     defaultOptions.Addr,
		Password: defaultOptions.Password,
		DB:       defaultOptions.DB,
	})
}

// Level is one aggregated price level in a snapshot.
type Level struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Orders   int    `json:"orders"`
}

// Snapshot is the wire form of a top-N depth view.
type Snapshot struct {
	Symbol    string  `json:"symbol"`
	Bids      []Level `json:"bids"`
	Asks      []Level `json:"asks"`
	Timestamp int64   `json:"timestamp"`
}

// NewSnapshot converts level views into their wire form.
func NewSnapshot(symbol string, bids, asks []core.PriceLevel) *Snapshot {
	return &Snapshot{
		Symbol:    symbol,
		Bids:      convertLevels(bids),
		Asks:      convertLevels(asks),
		Timestamp: time.Now().UnixMilli(),
	}
}

func convertLevels(levels []core.PriceLevel) []Level {
	out := make([]Level, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, Level{
			Price:    messaging.FormatPrice(lvl.Price),
			Quantity: messaging.FormatQuantity(lvl.TotalQuantity),
			Orders:   lvl.OrderCount,
		})
	}
	return out
}

// DepthPublisher writes depth snapshots to Redis.
type DepthPublisher struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	ttl       time.Duration
}

// NewDepthPublisher creates a publisher. keyPrefix defaults to
// "ticklob:depth".
func NewDepthPublisher(client *redis.Client, keyPrefix string, logger *zap.Logger) *DepthPublisher {
	if keyPrefix == "" {
		keyPrefix = "ticklob:depth"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepthPublisher{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
		ttl:       30 * time.Second,
	}
}

// Key returns the Redis key for a symbol's snapshot.
func (p *DepthPublisher) Key(symbol string) string {
	return fmt.Sprintf("%s:%s", p.keyPrefix, symbol)
}

// Publish writes one snapshot. The caller owns the book and builds the
// level views on its own thread.
func (p *DepthPublisher) Publish(ctx context.Context, symbol string, bids, asks []core.PriceLevel) error {
	snapshot := NewSnapshot(symbol, bids, asks)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal depth snapshot: %w", err)
	}

	key := p.Key(symbol)
	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.Error("Failed to publish depth snapshot",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to write depth snapshot: %w", err)
	}

	p.logger.Debug("Published depth snapshot",
		zap.String("key", key),
		zap.Int("bid_levels", len(snapshot.Bids)),
		zap.Int("ask_levels", len(snapshot.Asks)))
	return nil
}

// Close releases the Redis client.
func (p *DepthPublisher) Close() error {
	return p.client.Close()
}

package fulfillment

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IdentifierGenerator produces external reference numbers for payments and shipments.
// Uniqueness is finally enforced by the store.
type IdentifierGenerator interface {
	TrackingNumber(orderID, buyerID uuid.UUID) string
	TransactionID(orderID, buyerID uuid.UUID) string
}

// Identifier strategies selectable through configuration
const (
	IdentifierStrategyTraceable = "traceable"
	IdentifierStrategyUUID      = "uuid"
)

// NewIdentifierGenerator returns the generator for the named strategy
func NewIdentifierGenerator(strategy string) (IdentifierGenerator, error) {
	switch strategy {
	case "", IdentifierStrategyTraceable:
		return NewTraceableIdentifierGenerator(), nil
	case IdentifierStrategyUUID:
		return UUIDIdentifierGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown identifier strategy %q", strategy)
	}
}

const maxIdentifierSuffix = 10_000_000

// TraceableIdentifierGenerator builds "{epochMillis}-{orderId}-{buyerId}-{rand}"
// identifiers, with rand drawn from [0, 9999999].
type TraceableIdentifierGenerator struct {
	mu  sync.Mutex
	now func() time.Time
	rnd *rand.Rand
}

// TraceableOption customizes a TraceableIdentifierGenerator
type TraceableOption func(*TraceableIdentifierGenerator)

// WithIdentifierClock overrides the clock
func WithIdentifierClock(now func() time.Time) TraceableOption {
	return func(g *TraceableIdentifierGenerator) {
		g.now = now
	}
}

// WithIdentifierRand overrides the random source
func WithIdentifierRand(rnd *rand.Rand) TraceableOption {
	return func(g *TraceableIdentifierGenerator) {
		g.rnd = rnd
	}
}

func NewTraceableIdentifierGenerator(opts ...TraceableOption) *TraceableIdentifierGenerator {
	g := &TraceableIdentifierGenerator{
		now: time.Now,
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *TraceableIdentifierGenerator) TrackingNumber(orderID, buyerID uuid.UUID) string {
	return g.next(orderID, buyerID)
}

func (g *TraceableIdentifierGenerator) TransactionID(orderID, buyerID uuid.UUID) string {
	return g.next(orderID, buyerID)
}

func (g *TraceableIdentifierGenerator) next(orderID, buyerID uuid.UUID) string {
	g.mu.Lock()
	millis := g.now().UnixMilli()
	suffix := g.rnd.IntN(maxIdentifierSuffix)
	g.mu.Unlock()
	return fmt.Sprintf("%d-%s-%s-%d", millis, orderID, buyerID, suffix)
}

// UUIDIdentifierGenerator issues random UUIDs
type UUIDIdentifierGenerator struct{}

func (UUIDIdentifierGenerator) TrackingNumber(uuid.UUID, uuid.UUID) string {
	return uuid.NewString()
}

func (UUIDIdentifierGenerator) TransactionID(uuid.UUID, uuid.UUID) string {
	return uuid.NewString()
}

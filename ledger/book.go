package ledger

import (
	"fmt"
	"sync"

	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/risk"
)

// Book owns the authoritative order/position collections for one
// account and serializes order admission. The capital check and the
// insert happen under one mutex, so two concurrent entry orders can
// never both be admitted against the same free capital.
type Book struct {
	mu          sync.Mutex
	accountSize float64
	positions   map[string]book.Position
	orders      map[string]book.Order
}

// NewBook creates an empty book for an account.
func NewBook(accountSize float64) (*Book, error) {
	if accountSize < 0 {
		return nil, fmt.Errorf("%w: account size %.2f must not be negative", risk.ErrInvalidInput, accountSize)
	}
	return &Book{
		accountSize: accountSize,
		positions:   make(map[string]book.Position),
		orders:      make(map[string]book.Order),
	}, nil
}

// CreateOrder validates and admits an order. Entry orders pass the
// capital check first and are rejected with *InsufficientCapitalError
// when the reserve does not fit; stop and take-profit orders bypass the
// check unconditionally. The assigned order ID is returned.
func (b *Book) CreateOrder(o book.Order) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if o.Kind == book.KindEntry && o.Status == book.OrderPending {
		state, err := ComputeCapitalState(b.positionsLocked(), b.ordersLocked(), b.accountSize)
		if err != nil {
			return "", err
		}
		check := CheckCapitalAvailable(state, o.RequiredCapital())
		if !check.IsAvailable {
			return "", &InsufficientCapitalError{Check: check}
		}
	}

	if o.ID == "" {
		o.ID = book.NewID()
	}
	if _, exists := b.orders[o.ID]; exists {
		return "", fmt.Errorf("order %s already exists", o.ID)
	}
	b.orders[o.ID] = o
	return o.ID, nil
}

// AddPosition registers an externally opened position.
func (b *Book) AddPosition(p book.Position) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if p.ID == "" {
		p.ID = book.NewID()
	}
	if _, exists := b.positions[p.ID]; exists {
		return "", fmt.Errorf("position %s already exists", p.ID)
	}
	b.positions[p.ID] = p
	return p.ID, nil
}

// UpdatePositionStop applies a proposed stop to an open position,
// rejecting non-monotonic updates at the boundary.
func (b *Book) UpdatePositionStop(positionID string, newStop float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.positions[positionID]
	if !ok {
		return fmt.Errorf("position %s not found", positionID)
	}
	if p.Status != book.PositionOpen {
		return fmt.Errorf("position %s is not open", positionID)
	}
	if err := p.CheckStopUpdate(newStop); err != nil {
		return err
	}
	p.StopPrice = newStop
	b.positions[positionID] = p
	return nil
}

// CancelOrder marks a pending order cancelled, releasing its reserve on
// the next state derivation.
func (b *Book) CancelOrder(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s not found", orderID)
	}
	if o.Status != book.OrderPending {
		return fmt.Errorf("order %s is not pending", orderID)
	}
	o.Status = book.OrderCancelled
	b.orders[orderID] = o
	return nil
}

// CapitalState recomputes the derived capital state from the current
// collections.
func (b *Book) CapitalState() (CapitalState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ComputeCapitalState(b.positionsLocked(), b.ordersLocked(), b.accountSize)
}

// Snapshot returns defensive copies of the collections for concurrent
// readers.
func (b *Book) Snapshot() ([]book.Position, []book.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.positionsLocked(), b.ordersLocked()
}

// Position looks up one position by ID.
func (b *Book) Position(positionID string) (book.Position, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.positions[positionID]
	return p, ok
}

func (b *Book) positionsLocked() []book.Position {
	out := make([]book.Position, 0, len(b.positions))
	for _, p := range b.positions {
		out = append(out, p)
	}
	return out
}

func (b *Book) ordersLocked() []book.Order {
	out := make([]book.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	return out
}

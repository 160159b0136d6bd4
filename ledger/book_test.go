package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/risk"
)

func TestBookCreateOrder_AdmitsWithinCapital(t *testing.T) {
	t.Parallel()

	b, err := NewBook(500)
	require.NoError(t, err)

	id, err := b.CreateOrder(pendingEntry("ASML", 100, 5))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	state, err := b.CapitalState()
	require.NoError(t, err)
	assert.InDelta(t, 500.0, state.ReservedOrders, 1e-9)
	assert.InDelta(t, 0.0, state.Available, 1e-9)
}

func TestBookCreateOrder_RejectsInsufficient(t *testing.T) {
	t.Parallel()

	b, err := NewBook(500)
	require.NoError(t, err)

	_, err = b.CreateOrder(pendingEntry("ASML", 100, 4))
	require.NoError(t, err)

	_, err = b.CreateOrder(pendingEntry("ENEL", 101, 1))
	require.Error(t, err)
	assert.True(t, IsInsufficientCapital(err))

	ice, ok := err.(*InsufficientCapitalError)
	require.True(t, ok)
	assert.InDelta(t, 101.0, ice.Check.Required, 1e-9)
	assert.InDelta(t, 100.0, ice.Check.Available, 1e-9)
	assert.InDelta(t, 1.0, ice.Check.Shortfall, 1e-9)

	// A rejected admission mutates nothing.
	state, err := b.CapitalState()
	require.NoError(t, err)
	assert.InDelta(t, 100.0, state.Available, 1e-9)
}

func TestBookCreateOrder_ExitsBypassCheck(t *testing.T) {
	t.Parallel()

	b, err := NewBook(0)
	require.NoError(t, err)

	// Stop and take-profit orders are exits; they are admitted even with
	// zero free capital.
	_, err = b.CreateOrder(book.Order{
		Ticker: "ASML", Status: book.OrderPending, Kind: book.KindStop,
		Quantity: 3, StopPrice: 95,
	})
	assert.NoError(t, err)

	_, err = b.CreateOrder(book.Order{
		Ticker: "ASML", Status: book.OrderPending, Kind: book.KindTakeProfit,
		Quantity: 3, LimitPrice: 140,
	})
	assert.NoError(t, err)

	_, err = b.CreateOrder(pendingEntry("ASML", 1, 1))
	assert.True(t, IsInsufficientCapital(err))
}

func TestBookCreateOrder_InvalidOrder(t *testing.T) {
	t.Parallel()

	b, err := NewBook(1000)
	require.NoError(t, err)

	// Entry without a limit price is rejected before any capital math.
	_, err = b.CreateOrder(book.Order{
		Ticker: "ASML", Status: book.OrderPending, Kind: book.KindEntry, Quantity: 5,
	})
	assert.ErrorIs(t, err, risk.ErrInvalidInput)

	_, err = b.CreateOrder(book.Order{
		Ticker: "ASML", Status: book.OrderPending, Kind: book.KindEntry,
		Quantity: -5, LimitPrice: 10,
	})
	assert.ErrorIs(t, err, risk.ErrInvalidInput)
}

func TestBookConcurrentAdmission_NeverDoubleSpends(t *testing.T) {
	t.Parallel()

	// 20 goroutines race to reserve 100 each out of 500. Exactly five
	// admissions can fit; the rest must see an insufficient-capital
	// rejection, never a double-spend.
	b, err := NewBook(500)
	require.NoError(t, err)

	const workers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.CreateOrder(pendingEntry("ASML", 100, 1))
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
				return
			}
			if !IsInsufficientCapital(err) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, admitted)

	state, err := b.CapitalState()
	require.NoError(t, err)
	assert.InDelta(t, 500.0, state.ReservedOrders, 1e-9)
	assert.InDelta(t, 0.0, state.Available, 1e-9)
}

func TestBookUpdatePositionStop_Monotonic(t *testing.T) {
	t.Parallel()

	b, err := NewBook(1000)
	require.NoError(t, err)

	id, err := b.AddPosition(book.Position{
		Ticker:      "ASML",
		Status:      book.PositionOpen,
		EntryDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EntryPrice:  100,
		StopPrice:   90,
		Shares:      3,
		InitialRisk: 10,
	})
	require.NoError(t, err)

	require.NoError(t, b.UpdatePositionStop(id, 95))

	// Equal and lower stops are rejected at the boundary.
	assert.ErrorIs(t, b.UpdatePositionStop(id, 95), book.ErrNonMonotonicStop)
	assert.ErrorIs(t, b.UpdatePositionStop(id, 92), book.ErrNonMonotonicStop)

	p, ok := b.Position(id)
	require.True(t, ok)
	assert.InDelta(t, 95.0, p.StopPrice, 1e-9)

	assert.Error(t, b.UpdatePositionStop("missing", 99))
}

func TestBookCancelOrder_ReleasesReserve(t *testing.T) {
	t.Parallel()

	b, err := NewBook(500)
	require.NoError(t, err)

	id, err := b.CreateOrder(pendingEntry("ASML", 100, 5))
	require.NoError(t, err)

	require.NoError(t, b.CancelOrder(id))

	state, err := b.CapitalState()
	require.NoError(t, err)
	assert.InDelta(t, 500.0, state.Available, 1e-9)

	// A fresh entry now fits again.
	_, err = b.CreateOrder(pendingEntry("ENEL", 250, 2))
	assert.NoError(t, err)
}

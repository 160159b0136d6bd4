package book

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matteolongo/swing-screener-sub002/risk"
)

func TestOrderValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		order   Order
		wantErr bool
	}{
		{"valid_entry", Order{Ticker: "ASML", Kind: KindEntry, Quantity: 10, LimitPrice: 25.5}, false},
		{"valid_stop_no_limit", Order{Ticker: "ASML", Kind: KindStop, Quantity: 10, StopPrice: 20}, false},
		{"entry_without_limit", Order{Ticker: "ASML", Kind: KindEntry, Quantity: 10}, true},
		{"zero_quantity", Order{Ticker: "ASML", Kind: KindEntry, Quantity: 0, LimitPrice: 10}, true},
		{"negative_quantity", Order{Ticker: "ASML", Kind: KindEntry, Quantity: -5, LimitPrice: 10}, true},
		{"negative_limit", Order{Ticker: "ASML", Kind: KindEntry, Quantity: 5, LimitPrice: -10}, true},
		{"missing_ticker", Order{Kind: KindEntry, Quantity: 5, LimitPrice: 10}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.order.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, risk.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderRequiredCapital(t *testing.T) {
	t.Parallel()

	entry := Order{Ticker: "A", Kind: KindEntry, Quantity: 10, LimitPrice: 25}
	assert.InDelta(t, 250.0, entry.RequiredCapital(), 1e-9)

	// Exits never reserve capital.
	stop := Order{Ticker: "A", Kind: KindStop, Quantity: 10, StopPrice: 20}
	assert.Zero(t, stop.RequiredCapital())
	take := Order{Ticker: "A", Kind: KindTakeProfit, Quantity: 10, LimitPrice: 40}
	assert.Zero(t, take.RequiredCapital())
}

func TestPositionValidate(t *testing.T) {
	t.Parallel()

	valid := Position{Ticker: "ASML", EntryPrice: 100, StopPrice: 90, Shares: 3, InitialRisk: 10}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.EntryPrice = -1
	assert.ErrorIs(t, bad.Validate(), risk.ErrInvalidInput)

	bad = valid
	bad.Shares = 0
	assert.ErrorIs(t, bad.Validate(), risk.ErrInvalidInput)

	bad = valid
	bad.StopPrice = -0.5
	assert.ErrorIs(t, bad.Validate(), risk.ErrInvalidInput)
}

func TestPositionCheckStopUpdate(t *testing.T) {
	t.Parallel()

	p := Position{Ticker: "ASML", EntryPrice: 100, StopPrice: 90, Shares: 3, InitialRisk: 10}

	assert.NoError(t, p.CheckStopUpdate(95))
	assert.ErrorIs(t, p.CheckStopUpdate(90), ErrNonMonotonicStop, "equal stop is a no-op, rejected")
	assert.ErrorIs(t, p.CheckStopUpdate(85), ErrNonMonotonicStop)
	assert.ErrorIs(t, p.CheckStopUpdate(-1), risk.ErrInvalidInput)
}

func TestEnumJSONRoundTrip(t *testing.T) {
	t.Parallel()

	o := Order{Ticker: "ASML", Status: OrderPending, Kind: KindTakeProfit, Quantity: 3, LimitPrice: 140}

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"pending"`)
	assert.Contains(t, string(data), `"kind":"take_profit"`)

	var back Order
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, o, back)

	var bad Order
	err = json.Unmarshal([]byte(`{"ticker":"X","status":"limbo"}`), &bad)
	assert.Error(t, err)
}

func TestNewID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.Len(t, id, 26)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
		if prev != "" {
			assert.GreaterOrEqual(t, id, prev, "ids are time-sortable")
		}
		prev = id
	}
}

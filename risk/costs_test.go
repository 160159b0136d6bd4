package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostsRoundTripPct(t *testing.T) {
	t.Parallel()

	c := Costs{CommissionPct: 0.001, SlippageBps: 10, FXPct: 0.0005}
	// 0.1% + 10bps (0.1%) + 0.05% = 0.25%
	assert.InDelta(t, 0.0025, c.RoundTripPct(), 1e-12)
}

func TestNetR(t *testing.T) {
	t.Parallel()

	c := Costs{CommissionPct: 0.001} // 0.1% of notional
	// Entry 100, risk 10: cost of 0.1 in price terms is 0.01R.
	got := NetR(2.0, c, 100, 10)
	assert.InDelta(t, 1.99, got, 1e-12)

	// No costs, netR equals grossR.
	assert.InDelta(t, 1.5, NetR(1.5, Costs{}, 100, 10), 1e-12)

	// Degenerate risk contributes no cost adjustment.
	assert.InDelta(t, 1.0, NetR(1.0, c, 100, 0), 1e-12)
}

func TestCostsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Costs{CommissionPct: 0.001, SlippageBps: 5}.Validate())
	assert.ErrorIs(t, Costs{CommissionPct: -0.1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Costs{SlippageBps: -1}.Validate(), ErrInvalidInput)
}

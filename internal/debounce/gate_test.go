package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_OnlyLatestScheduleSettles(t *testing.T) {
	g := NewGate[string](time.Millisecond)

	first := g.Schedule("b")
	second := g.Schedule("ba")
	require.NotNil(t, first)
	require.NotNil(t, second)

	stale, ok := first().(SettledMsg[string])
	require.True(t, ok)
	current, ok := second().(SettledMsg[string])
	require.True(t, ok)

	_, settled := g.Settle(stale)
	assert.False(t, settled, "superseded tick must not settle")

	v, settled := g.Settle(current)
	assert.True(t, settled)
	assert.Equal(t, "ba", v)
}

func TestGate_TickWaitsForQuietPeriod(t *testing.T) {
	g := NewGate[string](30 * time.Millisecond)

	start := time.Now()
	msg := g.Schedule("x")()
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	v, ok := g.Settle(msg.(SettledMsg[string]))
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestGate_StopSuppressesOutstandingTicks(t *testing.T) {
	g := NewGate[string](time.Millisecond)

	cmd := g.Schedule("pending")
	g.Stop()

	_, ok := g.Settle(cmd().(SettledMsg[string]))
	assert.False(t, ok)
	assert.Nil(t, g.Schedule("after stop"))
}

func TestGate_IgnoresOtherGates(t *testing.T) {
	a := NewGate[string](time.Millisecond)
	b := NewGate[string](time.Millisecond)

	msg := a.Schedule("from a")().(SettledMsg[string])
	b.Schedule("from b")

	_, ok := b.Settle(msg)
	assert.False(t, ok)
}

func TestGate_DefaultQuiet(t *testing.T) {
	assert.Equal(t, DefaultQuiet, NewGate[int](-1).Quiet())
}

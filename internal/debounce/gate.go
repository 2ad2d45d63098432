package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SettledMsg is delivered to Update when a scheduled quiet period ends.
// Hand it to the Gate that produced it to learn whether it is still current.
type SettledMsg[T any] struct {
	Seq   uint64
	Value T
	gate  *Gate[T]
}

// Gate debounces inside a bubbletea program. It is not safe for concurrent
// use and belongs to the model's Update loop.
type Gate[T any] struct {
	quiet   time.Duration
	seq     uint64
	stopped bool
}

// NewGate returns a Gate. A non-positive quiet period uses DefaultQuiet.
func NewGate[T any](quiet time.Duration) *Gate[T] {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Gate[T]{quiet: quiet}
}

// Quiet returns the configured quiet period.
func (g *Gate[T]) Quiet() time.Duration {
	return g.quiet
}

// Schedule supersedes every earlier schedule and returns the tick that
// will carry v. It returns nil after Stop.
func (g *Gate[T]) Schedule(v T) tea.Cmd {
	if g.stopped {
		return nil
	}
	g.seq++
	seq := g.seq
	return tea.Tick(g.quiet, func(time.Time) tea.Msg {
		return SettledMsg[T]{Seq: seq, Value: v, gate: g}
	})
}

// Settle returns the value carried by msg when msg belongs to this gate's
// latest schedule. Stale, foreign and post-Stop messages report false.
func (g *Gate[T]) Settle(msg SettledMsg[T]) (T, bool) {
	if g.stopped || msg.gate != g || msg.Seq != g.seq {
		var zero T
		return zero, false
	}
	return msg.Value, true
}

// Stop invalidates every outstanding tick.
func (g *Gate[T]) Stop() {
	g.stopped = true
	g.seq++
}

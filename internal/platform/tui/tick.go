// Package tui provides the Bubble Tea integration for gridworld.
// It runs episodes in the terminal, lets a viewer pause, step and restart
// them, and serves the same interface over SSH via Wish.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger an engine tick. Gen identifies the episode the
// tick was scheduled for so ticks from a restarted episode are dropped.
type TickMsg struct {
	Time time.Time
	Gen  int
}

// tickGens hands out tick generations. It is shared by every model in the
// process, so a new episode never reuses a generation an older one scheduled.
var tickGens atomic.Int64

func nextGen() int {
	return int(tickGens.Add(1))
}

// tickCmd returns a Bubble Tea command that sends a tick after delay.
func tickCmd(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}

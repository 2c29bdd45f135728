package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"kanban/pkg/board"
	"kanban/pkg/tasks"
)

// Relay forwards reminder events from background goroutines to a running
// program. Events raised before a program is attached are dropped.
//
// Program.Send blocks until the event loop reads the message, so nothing
// reachable from Model.Update may send through a Relay.
type Relay struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach routes b's banner changes and every later event to p.
func (r *Relay) Attach(b *board.Board, p *tea.Program) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()

	b.Banner().OnChange(func(text string, visible bool) {
		r.Send(BannerMsg{Text: text, Visible: visible})
	})
}

func (r *Relay) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Alert shows message in the alert pane. It satisfies reminder.Alerter.
func (r *Relay) Alert(message string) {
	r.Send(AlertMsg{Text: message})
}

// OnFire redraws the board after a reminder fired.
func (r *Relay) OnFire(tasks.Task) {
	r.Send(RefreshMsg{})
}

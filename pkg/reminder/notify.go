package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"kanban/pkg/utils"
)

// NotificationTitle heads every system notification.
const NotificationTitle = "Task reminder"

// Sink shows system notifications. Implementations must not block and must
// silently drop notifications they are not permitted to show.
type Sink interface {
	RequestPermission(ctx context.Context) bool
	Notify(title, body string)
}

// Alerter shows a single blocking-style message to the user, used for the
// missed-reminder summary.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// LogSink records notifications in the application log. Permission is a
// configuration switch.
type LogSink struct {
	Enabled bool
}

func (s LogSink) RequestPermission(context.Context) bool {
	return s.Enabled
}

func (s LogSink) Notify(title, body string) {
	if !s.Enabled {
		return
	}
	utils.WithFields(logrus.Fields{"title": title}).Info(body)
}

// BellSink rings the terminal bell and writes the notification to w, for
// one-shot command line use.
type BellSink struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *BellSink) RequestPermission(context.Context) bool {
	return s.W != nil
}

func (s *BellSink) Notify(title, body string) {
	if s.W == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.W, "\a%s: %s\n", title, body)
}

// internal/gui/status.go
// Status line with live pipeline throughput
package gui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"live-camera-filtering/internal/metrics"
)

const statusInterval = time.Second

// StatusBar renders pipeline metrics as a single line of text.
type StatusBar struct {
	label *widget.Label
	do    func(fn func())
}

func NewStatusBar() *StatusBar {
	return &StatusBar{
		label: widget.NewLabel("Starting camera..."),
		do:    fyne.Do,
	}
}

// Update shows stats. Safe to call from any goroutine.
func (s *StatusBar) Update(stats metrics.Stats) {
	text := stats.Summary()
	s.do(func() {
		s.label.SetText(text)
	})
}

// SetMessage replaces the status text. Must run on the UI goroutine.
func (s *StatusBar) SetMessage(msg string) {
	s.label.SetText(msg)
}

func (s *StatusBar) Text() string {
	return s.label.Text
}

// Run refreshes the status line from source every interval until ctx is
// cancelled.
func (s *StatusBar) Run(ctx context.Context, interval time.Duration, source func() metrics.Stats) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Update(source())
		}
	}
}

func (s *StatusBar) GetContainer() fyne.CanvasObject {
	return s.label
}

// internal/gui/selector.go
// Segmented filter selector
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"live-camera-filtering/internal/core"
)

// FilterSelector is a single-choice control listing every filter name.
// Choosing a segment stores its index in the shared selection.
type FilterSelector struct {
	names     []string
	selection *core.AtomicSelection
	logger    logrus.FieldLogger

	radio *widget.RadioGroup
}

func NewFilterSelector(names []string, selection *core.AtomicSelection, logger logrus.FieldLogger) *FilterSelector {
	s := &FilterSelector{
		names:     append([]string(nil), names...),
		selection: selection,
		logger:    logger,
	}

	s.radio = widget.NewRadioGroup(s.names, s.onChanged)
	s.radio.Horizontal = true
	s.radio.Required = true
	if len(s.names) > 0 {
		s.radio.SetSelected(s.names[0])
	}
	selection.Select(0)

	return s
}

func (s *FilterSelector) onChanged(name string) {
	i := indexOf(s.names, name)
	if i < 0 {
		return
	}
	s.selection.Select(i)
	s.logger.WithFields(logrus.Fields{"filter": name, "index": i}).Debug("Filter selected")
}

// Select picks the segment at index i, as if the user had tapped it.
func (s *FilterSelector) Select(i int) {
	if i < 0 || i >= len(s.names) {
		return
	}
	s.radio.SetSelected(s.names[i])
}

// Selected returns the name of the highlighted segment.
func (s *FilterSelector) Selected() string {
	return s.radio.Selected
}

func (s *FilterSelector) Disable() {
	s.radio.Disable()
}

func (s *FilterSelector) GetContainer() fyne.CanvasObject {
	return s.radio
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// internal/gui/app.go
// Main window: live view, filter selector and status line
package gui

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"live-camera-filtering/internal/core"
	"live-camera-filtering/internal/metrics"
)

const (
	WindowTitle    = "Live Camera Filtering"
	FailureMessage = "can't access camera"
)

// Controller is the part of the frame pipeline the window drives.
type Controller interface {
	Stop() error
	Metrics() metrics.Stats
}

// Application owns the main window.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger logrus.FieldLogger

	view     *ImageView
	selector *FilterSelector
	status   *StatusBar
	failure  *widget.Label

	controller Controller
	cancel     context.CancelFunc
	closeOnce  sync.Once
}

func NewApplication(app fyne.App, names []string, selection *core.AtomicSelection,
	size fyne.Size, logger logrus.FieldLogger) *Application {
	window := app.NewWindow(WindowTitle)
	window.Resize(size)
	window.CenterOnScreen()

	a := &Application{
		app:    app,
		window: window,
		logger: logger.WithField("component", "gui"),
	}

	a.view = NewImageView()
	a.selector = NewFilterSelector(names, selection, a.logger)
	a.status = NewStatusBar()
	a.failure = widget.NewLabel(FailureMessage)
	a.failure.Alignment = fyne.TextAlignCenter
	a.failure.Hide()

	a.setupLayout()
	return a
}

func (a *Application) setupLayout() {
	bottom := container.NewVBox(
		widget.NewSeparator(),
		container.NewHScroll(a.selector.GetContainer()),
		a.status.GetContainer(),
	)

	content := container.NewBorder(
		nil,    // top
		bottom, // bottom
		nil,    // left
		nil,    // right
		container.NewStack(a.view.GetContainer(), container.NewCenter(a.failure)),
	)

	a.window.SetContent(content)
}

// View returns the display sink for the frame pipeline.
func (a *Application) View() *ImageView {
	return a.view
}

func (a *Application) Selector() *FilterSelector {
	return a.selector
}

// Attach connects the running pipeline. Its metrics feed the status line
// and closing the window stops it.
func (a *Application) Attach(c Controller) {
	a.controller = c
}

// ShowFailure replaces the live view with the camera failure message.
// Must run on the UI goroutine or before ShowAndRun.
func (a *Application) ShowFailure(err error) {
	a.logger.WithError(err).Error(FailureMessage)
	a.failure.Show()
	a.selector.Disable()
	a.status.SetMessage(FailureMessage)
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main window")

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.controller != nil && !a.failure.Visible() {
		go a.status.Run(ctx, statusInterval, a.controller.Metrics)
	}

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
	a.cleanup()
}

func (a *Application) cleanup() {
	a.closeOnce.Do(func() {
		a.logger.Info("Cleaning up application resources")
		if a.cancel != nil {
			a.cancel()
		}
		if a.controller == nil {
			return
		}
		if err := a.controller.Stop(); err != nil {
			a.logger.WithError(err).Warn("Capture did not stop cleanly")
		}
	})
}

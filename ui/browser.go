package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/scriptdom/config"
	"github.com/chrisuehlinger/scriptdom/dom"
	"github.com/chrisuehlinger/scriptdom/js"
)

// Browser wires one document to a script runtime and a display.
type Browser struct {
	cfg    *config.Config
	logger *zap.Logger

	tree    *dom.Tree
	runtime *js.Runtime
	bridge  *js.Bridge
	sink    *Sink
	screen  *Screen
}

// NewBrowser parses markup and installs the document global. Scripts do
// not run until the browser is started.
func NewBrowser(cfg *config.Config, markup string, logger *zap.Logger) (*Browser, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Browser{
		cfg:    cfg,
		logger: logger,
		tree:   dom.NewTree(markup),
		sink:   NewSink(),
		screen: NewScreen(cfg.Title, cfg.Width, cfg.Height),
	}
	b.runtime = js.NewRuntime(logger.Named("js"))
	b.bridge = js.NewBridge(b.runtime, b.tree, NewDispatcher(b.sink, logger), logger)
	if _, err := js.InstallDocument(b.bridge); err != nil {
		return nil, err
	}
	logger.Debug("document loaded", zap.Int("nodes", b.tree.Len()))
	return b, nil
}

// Tree returns the document tree.
func (b *Browser) Tree() *dom.Tree { return b.tree }

// Runtime returns the script runtime.
func (b *Browser) Runtime() *js.Runtime { return b.runtime }

// Sink returns the display callback queue.
func (b *Browser) Sink() *Sink { return b.sink }

// RunScripts executes the document's inline scripts and returns how many
// failed.
func (b *Browser) RunScripts() int {
	failed := js.ExecuteInlineScripts(b.runtime, b.tree)
	if failed > 0 {
		b.logger.Warn("some inline scripts failed", zap.Int("failed", failed))
	}
	return failed
}

// RunHeadless shows the document on a Headless layer, runs the scripts
// and delivers the re-renders they requested. The calling goroutine acts
// as the display goroutine.
func (b *Browser) RunHeadless() *Headless {
	layer := NewHeadless(b.tree, b.logger)
	b.screen.Push(layer)
	b.RunScripts()
	n := b.sink.Drain(b.screen)
	b.logger.Debug("headless run finished", zap.Int("callbacks", n))
	b.sink.Close()
	return layer
}

// Run opens a window and blocks until it is closed. Scripts run on their
// own goroutine; re-renders reach the window through the sink.
func (b *Browser) Run(ctx context.Context) {
	a := app.New()
	w := a.NewWindow(b.screen.Title)
	w.Resize(fyne.NewSize(float32(b.screen.Width), float32(b.screen.Height)))

	view := NewView(b.tree, b.logger)
	w.SetContent(view.Content())
	b.screen.Push(view)

	// Ctrl+R: repaint
	w.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyR,
		Modifier: fyne.KeyModifierControl,
	}, func(_ fyne.Shortcut) {
		view.Rerender()
	})
	// Ctrl+Q: quit
	w.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: fyne.KeyModifierControl,
	}, func(_ fyne.Shortcut) {
		a.Quit()
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go b.sink.Run(ctx, b.screen, fyne.Do)
	go b.RunScripts()

	w.ShowAndRun()
	b.sink.Close()
}

package ui

import (
	"sync"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/scriptdom/dom"
	"github.com/chrisuehlinger/scriptdom/render"
)

// Headless is a layer without a window. It keeps the latest rendering
// of the document and counts repaints.
type Headless struct {
	tree   *dom.Tree
	logger *zap.Logger

	mu      sync.Mutex
	lines   []string
	renders int
}

// NewHeadless creates a headless layer and paints it once.
func NewHeadless(tree *dom.Tree, logger *zap.Logger) *Headless {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Headless{tree: tree, logger: logger.Named("headless")}
	h.paint()
	return h
}

// Rerender repaints from the current tree.
func (h *Headless) Rerender() {
	h.paint()
	h.mu.Lock()
	h.renders++
	n := h.renders
	h.mu.Unlock()
	h.logger.Debug("rerendered", zap.Int("renders", n))
}

func (h *Headless) paint() {
	lines, err := render.Lines(h.tree, h.tree.Root())
	if err != nil {
		h.logger.Error("render failed", zap.Error(err))
		return
	}
	h.mu.Lock()
	h.lines = lines
	h.mu.Unlock()
}

// Lines returns the latest rendering.
func (h *Headless) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lines...)
}

// Renders returns how many times Rerender ran.
func (h *Headless) Renders() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.renders
}

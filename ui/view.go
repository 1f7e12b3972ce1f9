package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/scriptdom/dom"
	"github.com/chrisuehlinger/scriptdom/render"
)

// View shows the document in a Fyne window as one label per line.
// Rerender must run on the Fyne goroutine.
type View struct {
	tree   *dom.Tree
	logger *zap.Logger

	box    *fyne.Container
	scroll *container.Scroll
	status *widget.Label

	renders int
}

// NewView creates the view widgets and paints the tree once.
func NewView(tree *dom.Tree, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &View{
		tree:   tree,
		logger: logger.Named("view"),
		box:    container.NewVBox(),
		status: widget.NewLabel(""),
	}
	v.scroll = container.NewVScroll(v.box)
	v.paint()
	return v
}

// Content returns the root object to put in a window.
func (v *View) Content() fyne.CanvasObject {
	return container.NewBorder(nil, v.status, nil, nil, v.scroll)
}

// Rerender rebuilds the labels from the current tree.
func (v *View) Rerender() {
	v.renders++
	v.paint()
	v.logger.Debug("rerendered", zap.Int("renders", v.renders))
}

func (v *View) paint() {
	lines, err := render.Lines(v.tree, v.tree.Root())
	if err != nil {
		v.logger.Error("render failed", zap.Error(err))
		v.status.SetText("render failed: " + err.Error())
		return
	}

	objects := make([]fyne.CanvasObject, 0, len(lines))
	for _, line := range lines {
		label := widget.NewLabel(line)
		label.Wrapping = fyne.TextWrapWord
		objects = append(objects, label)
	}
	v.box.Objects = objects
	v.box.Refresh()
	v.status.SetText(statusText(len(lines), v.renders))
}

func statusText(lines, renders int) string {
	return pluralize(lines, "line") + ", " + pluralize(renders, "re-render")
}

func pluralize(n int, word string) string {
	s := strconv.Itoa(n) + " " + word
	if n != 1 {
		s += "s"
	}
	return s
}

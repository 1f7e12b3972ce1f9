// Package ui hosts the document on a display and repaints it when scripts
// change it.
package ui

import "sync"

// Layer is a view the display can repaint.
type Layer interface {
	Rerender()
}

// Screen is the display-side window state: its size and title and the
// stack of layers shown in it. The front layer is the active one.
type Screen struct {
	Width  int
	Height int
	Title  string

	mu     sync.Mutex
	layers []Layer
}

// NewScreen creates an empty screen.
func NewScreen(title string, width, height int) *Screen {
	return &Screen{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

// Push adds a layer in front of the others.
func (s *Screen) Push(l Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
}

// Pop removes the front layer and returns it.
func (s *Screen) Pop() (Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.layers) == 0 {
		return nil, false
	}
	l := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]
	return l, true
}

// Front returns the active layer.
func (s *Screen) Front() (Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.layers) == 0 {
		return nil, false
	}
	return s.layers[len(s.layers)-1], true
}

// Len returns the number of layers.
func (s *Screen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

package js

import (
	"errors"
	"fmt"

	"github.com/chrisuehlinger/scriptdom/dom"
)

// ErrUnknownProperty is returned by a PropertySource for names it does not serve.
var ErrUnknownProperty = errors.New("js: unknown property")

// Rerenderer asks the display to repaint. Rerender must not block on the
// repaint itself.
type Rerenderer interface {
	Rerender()
}

// RerenderFunc adapts a function to Rerenderer.
type RerenderFunc func()

// Rerender calls f.
func (f RerenderFunc) Rerender() { f() }

// PropertySource serves the live properties of one script-visible object.
// The goja adapter calls through it; it has no engine dependency.
type PropertySource interface {
	Read(name string) (string, error)
	Write(name, value string) error
}

// Property is a read-only data property captured when a handle is created.
type Property struct {
	Name  string
	Value string
}

// liveProperties are served by ElementSource on every access.
var liveProperties = []string{"innerHTML"}

// ElementSource reads and writes one element of a tree. Every successful
// innerHTML write is followed by a Rerender, even when the markup is
// unchanged.
type ElementSource struct {
	tree     *dom.Tree
	ref      dom.NodeRef
	renderer Rerenderer
}

// NewElementSource returns a source for the element at ref.
func NewElementSource(tree *dom.Tree, ref dom.NodeRef, renderer Rerenderer) *ElementSource {
	return &ElementSource{tree: tree, ref: ref, renderer: renderer}
}

// Ref returns the node the source is bound to.
func (s *ElementSource) Ref() dom.NodeRef {
	return s.ref
}

func (s *ElementSource) Read(name string) (string, error) {
	switch name {
	case "innerHTML":
		return s.tree.InnerHTML(s.ref)
	default:
		return "", fmt.Errorf("read %q: %w", name, ErrUnknownProperty)
	}
}

func (s *ElementSource) Write(name, value string) error {
	switch name {
	case "innerHTML":
		if err := s.tree.SetInnerHTML(s.ref, value); err != nil {
			return err
		}
		s.renderer.Rerender()
		return nil
	default:
		return fmt.Errorf("write %q: %w", name, ErrUnknownProperty)
	}
}

// Snapshot returns the read-only properties of the element at ref: tagName
// followed by one property per attribute in attribute order. The values are
// copies; later changes to the element do not show up in them.
func Snapshot(tree *dom.Tree, ref dom.NodeRef) ([]Property, error) {
	tag, err := tree.TagName(ref)
	if err != nil {
		return nil, err
	}
	attrs := tree.Attributes(ref)
	props := make([]Property, 0, len(attrs)+1)
	props = append(props, Property{Name: "tagName", Value: tag})
	for _, a := range attrs {
		props = append(props, Property{Name: a.Name, Value: a.Value})
	}
	return props, nil
}

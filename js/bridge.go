package js

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/scriptdom/dom"
)

// ErrNotBound means an object reached the bridge without the link the
// bridge stores on every handle it creates.
var ErrNotBound = errors.New("js: object is not a bridged element")

// BindingError reports a violation of the bridge's own contract. It is
// raised as a panic and never converted into a script exception.
type BindingError struct {
	Op  string
	Err error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("js: binding violation in %s: %v", e.Op, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// Unrecoverable marks BindingError as fatal for Runtime.
func (e *BindingError) Unrecoverable() bool {
	return true
}

// nodeLink is the opaque value stored on each handle.
type nodeLink struct {
	bridge *Bridge
	ref    dom.NodeRef
}

// Bridge projects tree elements onto goja objects.
//
// Each call to Bind creates a new object; handles are not cached, so two
// lookups of the same element give two distinct objects linked to the same
// node. The tree must outlive the runtime. A handle whose node has since
// been discarded throws when its live properties are used.
type Bridge struct {
	runtime  *Runtime
	tree     *dom.Tree
	renderer Rerenderer
	logger   *zap.Logger
	link     *goja.Symbol
}

// NewBridge creates a bridge between runtime and tree. Every innerHTML
// write through a handle calls renderer. A nil renderer does nothing.
func NewBridge(runtime *Runtime, tree *dom.Tree, renderer Rerenderer, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = RerenderFunc(func() {})
	}
	return &Bridge{
		runtime:  runtime,
		tree:     tree,
		renderer: renderer,
		logger:   logger.Named("bridge"),
		link:     goja.NewSymbol("node"),
	}
}

// Bind creates a script-visible object for the element at ref.
func (b *Bridge) Bind(ref dom.NodeRef) (*goja.Object, error) {
	props, err := Snapshot(b.tree, ref)
	if err != nil {
		return nil, err
	}

	vm := b.runtime.vm
	obj := vm.NewObject()

	link := vm.ToValue(&nodeLink{bridge: b, ref: ref})
	if err := obj.DefineDataPropertySymbol(b.link, link, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
		return nil, fmt.Errorf("bind %s: %w", ref, err)
	}

	defined := make(map[string]bool, len(liveProperties)+len(props))
	for _, name := range liveProperties {
		defined[name] = true
		if err := obj.DefineAccessorProperty(name, b.getter(name), b.setter(name), goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
			return nil, fmt.Errorf("bind %s: %w", ref, err)
		}
	}

	for _, p := range props {
		if defined[p.Name] {
			b.logger.Debug("attribute shadowed by element property",
				zap.String("name", p.Name), zap.Stringer("node", ref))
			continue
		}
		defined[p.Name] = true
		if err := obj.DefineDataProperty(p.Name, vm.ToValue(p.Value), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
			return nil, fmt.Errorf("bind %s: %w", ref, err)
		}
	}

	return obj, nil
}

// Resolve returns the node linked to v. It panics with a *BindingError if v
// was not created by this bridge.
func (b *Bridge) Resolve(v goja.Value) dom.NodeRef {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		panic(&BindingError{Op: "resolve", Err: ErrNotBound})
	}
	lv := obj.GetSymbol(b.link)
	if lv == nil {
		panic(&BindingError{Op: "resolve", Err: ErrNotBound})
	}
	l, ok := lv.Export().(*nodeLink)
	if !ok || l.bridge != b {
		panic(&BindingError{Op: "resolve", Err: ErrNotBound})
	}
	return l.ref
}

// Source returns the property source for the object v.
func (b *Bridge) Source(v goja.Value) *ElementSource {
	return NewElementSource(b.tree, b.Resolve(v), b.renderer)
}

func (b *Bridge) getter(name string) goja.Value {
	vm := b.runtime.vm
	return vm.ToValue(func(call goja.FunctionCall) goja.Value {
		value, err := b.Source(call.This).Read(name)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return vm.ToValue(value)
	})
}

func (b *Bridge) setter(name string) goja.Value {
	vm := b.runtime.vm
	return vm.ToValue(func(call goja.FunctionCall) goja.Value {
		src := b.Source(call.This)
		arg := call.Argument(0)
		if _, ok := arg.(*goja.Symbol); ok {
			panic(vm.NewTypeError("Cannot convert a Symbol value to a string"))
		}
		value := ""
		if !goja.IsNull(arg) {
			value = arg.String()
		}
		if err := src.Write(name, value); err != nil {
			panic(vm.NewGoError(err))
		}
		b.logger.Debug("property written", zap.String("name", name), zap.Stringer("node", src.Ref()))
		return goja.Undefined()
	})
}

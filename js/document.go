package js

import (
	"strconv"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/scriptdom/dom"
)

// InstallDocument creates the global document object with getElementById.
// When several elements share an id the first in document order wins.
func InstallDocument(b *Bridge) (*goja.Object, error) {
	vm := b.runtime.vm
	doc := vm.NewObject()

	err := doc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()
		ref, ok := b.tree.GetElementByID(b.tree.Root(), id)
		if !ok {
			return goja.Undefined()
		}
		obj, err := b.Bind(ref)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return obj
	})
	if err != nil {
		return nil, err
	}

	if err := vm.Set("document", doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ExecuteInlineScripts runs the text of every script element in document
// order. A failing script is logged by the runtime and does not stop the
// ones after it. It returns the number of scripts that failed.
func ExecuteInlineScripts(r *Runtime, tree *dom.Tree) int {
	failed := 0
	for i, ref := range tree.ElementsByTagName(tree.Root(), "script") {
		code, err := tree.TextContent(ref)
		if err != nil {
			continue
		}
		name := "inline-script-" + strconv.Itoa(i)
		if err := r.ExecuteScript(code, name); err != nil {
			r.logger.Warn("inline script failed", zap.String("script", name), zap.Error(err))
			failed++
		}
	}
	return failed
}

package dom

// GetElementByID returns the first element under scope (scope included)
// whose id attribute equals id. Each child is tested before its subtree,
// children in document order, and scope itself is tested last. From the
// document root, which never carries an id, that is plain document order.
func (t *Tree) GetElementByID(scope NodeRef, id string) (NodeRef, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, err := t.lookup(scope); err != nil {
		return NodeRef{}, false
	}
	return t.find(scope, func(ref NodeRef) bool {
		v, ok := t.slots[ref.Index].node.id()
		return ok && v == id
	})
}

func (t *Tree) find(ref NodeRef, match func(NodeRef) bool) (NodeRef, bool) {
	for _, c := range t.slots[ref.Index].node.children {
		if match(c) {
			return c, true
		}
		if found, ok := t.find(c, match); ok {
			return found, true
		}
	}
	if match(ref) {
		return ref, true
	}
	return NodeRef{}, false
}

// ElementsByTagName returns the elements under scope with the given local
// name, in document order.
func (t *Tree) ElementsByTagName(scope NodeRef, name string) []NodeRef {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, err := t.lookup(scope); err != nil {
		return nil
	}
	var out []NodeRef
	var walk func(NodeRef)
	walk = func(ref NodeRef) {
		n := t.slots[ref.Index].node
		if n.nodeType == ElementNode && n.data == name {
			out = append(out, ref)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(scope)
	return out
}

package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chrisuehlinger/scriptdom/html"
)

// shape is a comparable projection of a subtree.
type shape struct {
	Type      html.NodeType
	Data      string
	Namespace string
	Attrs     []html.Attribute
	Children  []shape
}

func shapeOf(t *testing.T, tree *Tree, ref NodeRef) shape {
	t.Helper()
	n, err := tree.Export(ref)
	if err != nil {
		t.Fatalf("Export(%s) failed: %v", ref, err)
	}
	return shapeOfNode(n)
}

func shapeOfNode(n *html.Node) shape {
	s := shape{Type: n.Type, Data: n.Data, Namespace: n.Namespace, Attrs: n.Attributes}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.Children = append(s.Children, shapeOfNode(c))
	}
	return s
}

func mustGet(t *testing.T, tree *Tree, id string) NodeRef {
	t.Helper()
	ref, ok := tree.GetElementByID(tree.Root(), id)
	if !ok {
		t.Fatalf("Element #%s not found", id)
	}
	return ref
}

func TestNewTree(t *testing.T) {
	tree := NewTree(`<div id="test" class="box">Hello</div>`)

	nt, err := tree.Type(tree.Root())
	if err != nil {
		t.Fatalf("Type failed: %v", err)
	}
	if nt != DocumentNode {
		t.Errorf("Expected DOCUMENT_NODE, got %s", nt)
	}

	div := mustGet(t, tree, "test")
	tag, err := tree.TagName(div)
	if err != nil {
		t.Fatalf("TagName failed: %v", err)
	}
	if tag != "DIV" {
		t.Errorf("Expected 'DIV', got '%s'", tag)
	}

	want := []Attribute{{Name: "id", Value: "test"}, {Name: "class", Value: "box"}}
	if diff := cmp.Diff(want, tree.Attributes(div)); diff != "" {
		t.Errorf("Attributes mismatch (-want +got):\n%s", diff)
	}

	parent, ok := tree.Parent(div)
	if !ok {
		t.Fatal("Expected div to have a parent")
	}
	if name, _ := tree.TagName(parent); name != "BODY" {
		t.Errorf("Expected body parent, got '%s'", name)
	}
	if _, ok := tree.Parent(tree.Root()); ok {
		t.Error("Root must not have a parent")
	}
}

func TestTree_InnerHTML(t *testing.T) {
	tree := NewTree(`<div id="r"><p class="x">Hello &amp; bye</p><!--c--></div>`)

	got, err := tree.InnerHTML(mustGet(t, tree, "r"))
	if err != nil {
		t.Fatalf("InnerHTML failed: %v", err)
	}
	if got != `<p class="x">Hello &amp; bye</p><!--c-->` {
		t.Errorf("Unexpected innerHTML %q", got)
	}
}

func TestTree_SetInnerHTML(t *testing.T) {
	tree := NewTree(`<div id="r"><p>old</p></div>`)
	r := mustGet(t, tree, "r")
	oldChildren, _ := tree.Children(r)

	if err := tree.SetInnerHTML(r, "<p>new</p><span>more</span>"); err != nil {
		t.Fatalf("SetInnerHTML failed: %v", err)
	}

	got, _ := tree.InnerHTML(r)
	if got != "<p>new</p><span>more</span>" {
		t.Errorf("Unexpected innerHTML %q", got)
	}
	for _, c := range oldChildren {
		if tree.Valid(c) {
			t.Errorf("Expected old child %s to be discarded", c)
		}
		if _, err := tree.Type(c); !errors.Is(err, ErrStaleNode) {
			t.Errorf("Expected ErrStaleNode, got %v", err)
		}
	}
	children, _ := tree.Children(r)
	for _, c := range children {
		if p, _ := tree.Parent(c); p != r {
			t.Errorf("Expected new child parent %s, got %s", r, p)
		}
	}
}

func TestTree_SetInnerHTMLEmptyAndMalformed(t *testing.T) {
	tree := NewTree(`<div id="r"><p>old</p></div>`)
	r := mustGet(t, tree, "r")

	if err := tree.SetInnerHTML(r, ""); err != nil {
		t.Fatalf("SetInnerHTML failed: %v", err)
	}
	if children, _ := tree.Children(r); len(children) != 0 {
		t.Errorf("Expected no children, got %d", len(children))
	}

	if err := tree.SetInnerHTML(r, "<p>unclosed<b>bold"); err != nil {
		t.Fatalf("SetInnerHTML failed: %v", err)
	}
	got, _ := tree.InnerHTML(r)
	if got != "<p>unclosed<b>bold</b></p>" {
		t.Errorf("Unexpected repaired markup %q", got)
	}
}

func TestTree_SetInnerHTMLRejectsNonElement(t *testing.T) {
	tree := NewTree(`<div id="r">text</div>`)
	r := mustGet(t, tree, "r")
	children, _ := tree.Children(r)
	text := children[0]

	if err := tree.SetInnerHTML(text, "<p>x</p>"); !errors.Is(err, ErrNotElement) {
		t.Errorf("Expected ErrNotElement, got %v", err)
	}
	if _, err := tree.InnerHTML(text); !errors.Is(err, ErrNotElement) {
		t.Errorf("Expected ErrNotElement, got %v", err)
	}
	if data, _ := tree.Data(text); data != "text" {
		t.Errorf("Text node was modified: %q", data)
	}
	if err := tree.SetInnerHTML(tree.Root(), "x"); !errors.Is(err, ErrNotElement) {
		t.Errorf("Expected ErrNotElement for document, got %v", err)
	}
}

func TestTree_InnerHTMLRoundTrip(t *testing.T) {
	inputs := []string{
		`<p>Hello</p>`,
		`<ul><li id="a" class="x" data-k="v">one</li><li>two</li></ul>`,
		`text <b>bold</b> &lt;escaped&gt; <i>it</i>`,
		`<br/><img src="a.png" alt="a &quot;b&quot;"/><input type="text" disabled=""/>`,
		`<!-- note --><table><tbody><tr><td>1</td></tr></tbody></table>`,
		`<script>if (a < b) { document.x = "<p>" }</script><style>.a > .b {}</style>`,
		`<svg><circle r="1"></circle></svg>`,
		"  \n  <pre>code</pre>\n",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree := NewTree(`<div id="r"></div>`)
			r := mustGet(t, tree, "r")
			if err := tree.SetInnerHTML(r, input); err != nil {
				t.Fatalf("SetInnerHTML failed: %v", err)
			}
			before := shapeOf(t, tree, r)

			markup, err := tree.InnerHTML(r)
			if err != nil {
				t.Fatalf("InnerHTML failed: %v", err)
			}
			if err := tree.SetInnerHTML(r, markup); err != nil {
				t.Fatalf("SetInnerHTML failed: %v", err)
			}

			if diff := cmp.Diff(before, shapeOf(t, tree, r)); diff != "" {
				t.Errorf("Round trip changed the tree (-before +after):\n%s", diff)
			}
			again, _ := tree.InnerHTML(r)
			if again != markup {
				t.Errorf("Serialization not idempotent: %q vs %q", markup, again)
			}
		})
	}
}

func TestTree_InnerHTMLRoundTripOnParsedElement(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		id      string
		tagName string
	}{
		{"noscript", `<div><noscript id="n"><p>a</p> &amp; b</noscript></div>`, "n", "NOSCRIPT"},
		{"svg", `<svg id="s"><circle id="c" r="1"></circle><g><rect></rect></g></svg>`, "s", "svg"},
		{"math", `<math id="m"><mi>x</mi></math>`, "m", "math"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewTree(tt.markup)
			el := mustGet(t, tree, tt.id)
			if name, _ := tree.TagName(el); name != tt.tagName {
				t.Fatalf("Expected tag name %q, got %q", tt.tagName, name)
			}
			before := shapeOf(t, tree, el)

			markup, err := tree.InnerHTML(el)
			if err != nil {
				t.Fatalf("InnerHTML failed: %v", err)
			}
			if err := tree.SetInnerHTML(el, markup); err != nil {
				t.Fatalf("SetInnerHTML failed: %v", err)
			}

			if diff := cmp.Diff(before, shapeOf(t, tree, el)); diff != "" {
				t.Errorf("Round trip changed the tree (-before +after):\n%s", diff)
			}
		})
	}
}

func TestTree_SetInnerHTMLKeepsForeignNamespace(t *testing.T) {
	tree := NewTree(`<svg id="s"><circle id="c"></circle></svg>`)
	s := mustGet(t, tree, "s")

	if err := tree.SetInnerHTML(s, `<circle id="c"></circle>`); err != nil {
		t.Fatalf("SetInnerHTML failed: %v", err)
	}
	if name, _ := tree.TagName(mustGet(t, tree, "c")); name != "circle" {
		t.Errorf("Expected svg tag name 'circle', got %q", name)
	}
}

func TestTree_IDIsDerived(t *testing.T) {
	tree := NewTree(`<div id="first"></div>`)
	div := mustGet(t, tree, "first")

	if err := tree.SetAttribute(div, "id", "second"); err != nil {
		t.Fatalf("SetAttribute failed: %v", err)
	}
	if _, ok := tree.GetElementByID(tree.Root(), "first"); ok {
		t.Error("Lookup by the old id must miss")
	}
	if got := mustGet(t, tree, "second"); got != div {
		t.Errorf("Expected %s, got %s", div, got)
	}
}

func TestTree_SetAttributeKeepsOrder(t *testing.T) {
	tree := NewTree(`<a id="l" href="/a" class="c"></a>`)
	a := mustGet(t, tree, "l")
	_ = tree.SetAttribute(a, "href", "/b")
	_ = tree.SetAttribute(a, "title", "t")

	want := []Attribute{
		{Name: "id", Value: "l"},
		{Name: "href", Value: "/b"},
		{Name: "class", Value: "c"},
		{Name: "title", Value: "t"},
	}
	if diff := cmp.Diff(want, tree.Attributes(a)); diff != "" {
		t.Errorf("Attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestTree_StaleRefAfterSlotReuse(t *testing.T) {
	tree := NewTree(`<div id="r"><p>old</p></div>`)
	r := mustGet(t, tree, "r")
	oldChildren, _ := tree.Children(r)
	live := tree.Len()

	_ = tree.SetInnerHTML(r, "<p>one</p>")
	_ = tree.SetInnerHTML(r, "<p>two</p>")

	if tree.Len() != live {
		t.Errorf("Expected %d live nodes, got %d", live, tree.Len())
	}
	for _, c := range oldChildren {
		if tree.Valid(c) {
			t.Errorf("Stale ref %s resolved after slot reuse", c)
		}
	}
	if _, err := tree.Type(NodeRef{}); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("Expected ErrInvalidRef for zero ref, got %v", err)
	}
	if _, err := tree.Type(NodeRef{Index: 1 << 20}); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("Expected ErrInvalidRef for out of range ref, got %v", err)
	}
}

func TestTree_Dump(t *testing.T) {
	tree := NewTree(`<div id="r"><p>hi</p></div>`)
	var sb strings.Builder
	if err := tree.Dump(&sb); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"#document", `div id="r"`, `#text "hi"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump missing %q:\n%s", want, out)
		}
	}
}

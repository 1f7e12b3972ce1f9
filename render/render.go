// Package render turns the document tree into display lines.
//
// It is a text renderer: block elements start new lines, inline content
// flows into the current line and whitespace collapses as in normal HTML
// flow. It does not do CSS; elements are only hidden by tag or by the
// hidden attribute.
package render

import (
	"strings"
	"unicode"

	"github.com/chrisuehlinger/scriptdom/dom"
	"github.com/chrisuehlinger/scriptdom/html"
)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"html": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "summary": true, "table": true,
	"tr": true, "ul": true,
}

var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "template": true,
	"title": true, "meta": true, "link": true, "noscript": true,
}

// Lines lays out the subtree at root. It takes a copy of the subtree first,
// so the tree is only locked while copying.
func Lines(tree *dom.Tree, root dom.NodeRef) ([]string, error) {
	n, err := tree.Export(root)
	if err != nil {
		return nil, err
	}
	f := &flow{}
	f.node(n, false)
	f.flush()
	return f.lines, nil
}

// Text is Lines joined with newlines.
func Text(tree *dom.Tree, root dom.NodeRef) (string, error) {
	lines, err := Lines(tree, root)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

type flow struct {
	lines []string
	cur   strings.Builder
	space bool // a collapsed space is pending
}

func (f *flow) node(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		f.text(n.Data, pre)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skippedElements[n.Data] || n.HasAttribute("hidden") {
			return
		}
		if n.Data == "br" {
			f.flush()
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		f.flush()
	}
	pre = pre || n.Data == "pre"
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.node(c, pre)
	}
	if block {
		f.flush()
	}
}

func (f *flow) text(s string, pre bool) {
	if pre {
		parts := strings.Split(s, "\n")
		for i, part := range parts {
			if i > 0 {
				f.flushRaw()
			}
			f.cur.WriteString(part)
		}
		return
	}
	if s == "" {
		return
	}
	if strings.TrimLeftFunc(s, unicode.IsSpace) != s {
		f.space = true
	}
	words := strings.Fields(s)
	for i, word := range words {
		if i > 0 {
			f.space = true
		}
		if f.space && f.cur.Len() > 0 {
			f.cur.WriteByte(' ')
		}
		f.cur.WriteString(word)
		f.space = false
	}
	if len(words) > 0 && strings.TrimRightFunc(s, unicode.IsSpace) != s {
		f.space = true
	}
}

func (f *flow) flush() {
	// Collapsed text never starts or ends with a space, and preformatted
	// text keeps its own.
	if f.cur.Len() > 0 {
		f.lines = append(f.lines, f.cur.String())
	}
	f.cur.Reset()
	f.space = false
}

func (f *flow) flushRaw() {
	f.lines = append(f.lines, f.cur.String())
	f.cur.Reset()
	f.space = false
}

// Package markup turns panel documents into something a terminal can show:
// plain text lines plus the buttons the document offers.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ActionAttr is the attribute a button carries its action in.
const ActionAttr = "data-select"

// Button is a clickable element.
type Button struct {
	Action string
	Label  string
}

// Line is one row of rendered text. AfterButtons counts the buttons that
// appear before it in the document.
type Line struct {
	Text         string
	Heading      bool
	AfterButtons int
}

// Page is the terminal rendition of a document.
type Page struct {
	Title   string
	Lines   []Line
	Buttons []Button
}

// Empty reports whether the page has nothing visible besides its title.
func (p Page) Empty() bool {
	return len(p.Lines) == 0 && len(p.Buttons) == 0
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Ul: true,
	atom.Ol: true, atom.Li: true, atom.Table: true, atom.Tr: true,
	atom.Br: true, atom.Hr: true, atom.Pre: true, atom.Body: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

var headingElements = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// Parse renders markup. Malformed input is handled the way browsers do.
func Parse(markup string) Page {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return Page{Lines: splitPlain(markup)}
	}
	b := &builder{}
	b.walk(doc)
	b.flush()
	return b.page
}

type builder struct {
	page    Page
	current strings.Builder
	heading bool
	pre     int
}

func (b *builder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Title:
			if b.page.Title == "" {
				b.page.Title = collapse(textOf(n))
			}
			return
		case atom.Button:
			b.button(n)
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	heading := n.Type == html.ElementNode && headingElements[n.DataAtom]
	isPre := n.Type == html.ElementNode && n.DataAtom == atom.Pre
	if block {
		b.flush()
	}
	if heading {
		b.heading = true
	}
	if isPre {
		b.pre++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
	if isPre {
		b.pre--
	}
	if block {
		b.flush()
	}
	if heading {
		b.heading = false
	}
}

func (b *builder) text(data string) {
	if b.pre > 0 {
		lines := strings.Split(strings.Trim(data, "\n"), "\n")
		for i, line := range lines {
			if i > 0 {
				b.flushRaw()
			}
			b.current.WriteString(strings.TrimRight(line, " \t\r"))
		}
		return
	}
	text := collapse(data)
	if text == "" {
		return
	}
	if b.current.Len() > 0 {
		b.current.WriteByte(' ')
	}
	b.current.WriteString(text)
}

func (b *builder) button(n *html.Node) {
	label := collapse(textOf(n))
	action := ""
	for _, attr := range n.Attr {
		if attr.Key == ActionAttr {
			action = attr.Val
			break
		}
	}
	if action == "" && label == "" {
		return
	}
	b.flush()
	b.page.Buttons = append(b.page.Buttons, Button{Action: action, Label: label})
}

func (b *builder) flush() {
	if b.current.Len() == 0 {
		return
	}
	b.flushRaw()
}

func (b *builder) flushRaw() {
	text := b.current.String()
	b.current.Reset()
	if b.pre == 0 && strings.TrimSpace(text) == "" {
		return
	}
	b.page.Lines = append(b.page.Lines, Line{Text: text, Heading: b.heading, AfterButtons: len(b.page.Buttons)})
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func splitPlain(s string) []Line {
	var out []Line
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Line{Text: line})
	}
	return out
}

package songbook

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseMarkup splits paragraph text with inline <b>, <i> and <br/> tags into
// lines of runs. Whitespace collapses as in HTML.
func parseMarkup(text string) ([]Line, error) {
	context := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	nodes, err := html.ParseFragment(strings.NewReader(text), context)
	if err != nil {
		return nil, fmt.Errorf("error parsing markup: %w", err)
	}

	w := &markupWalker{lines: []Line{nil}}
	for _, n := range nodes {
		w.walk(n)
	}

	res := make([]Line, 0, len(w.lines))
	for _, l := range w.lines {
		res = append(res, trimLine(l))
	}
	return res, nil
}

type markupWalker struct {
	lines  []Line
	bold   int
	italic int
}

func (w *markupWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return
		}
		last := len(w.lines) - 1
		w.lines[last] = append(w.lines[last], Run{
			Text:   n.Data,
			Bold:   w.bold > 0,
			Italic: w.italic > 0,
		})
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			w.lines = append(w.lines, nil)
			return
		case "b", "strong":
			w.bold++
			defer func() { w.bold-- }()
		case "i", "em":
			w.italic++
			defer func() { w.italic-- }()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// trimLine collapses whitespace inside the runs of l and drops empty runs.
func trimLine(l Line) Line {
	var res Line
	pendingSpace := false
	for _, r := range l {
		fields := strings.Fields(r.Text)
		leading := len(r.Text) > 0 && isSpace(r.Text[0])
		trailing := len(r.Text) > 0 && isSpace(r.Text[len(r.Text)-1])
		if len(fields) == 0 {
			if leading {
				pendingSpace = true
			}
			continue
		}
		text := strings.Join(fields, " ")
		if (pendingSpace || leading) && len(res) > 0 {
			text = " " + text
		}
		res = append(res, Run{Text: text, Bold: r.Bold, Italic: r.Italic})
		pendingSpace = trailing
	}
	return res
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

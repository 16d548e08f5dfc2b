package catalog

import (
	"strings"

	"github.com/opd-ai/chordbook/songbook"
	"github.com/russross/blackfriday/v2"
)

// fenceKinds maps the info string of a fenced block to the block it holds.
// A fence without info is a verse.
var fenceKinds = map[string]songbook.BlockKind{
	"":          songbook.Verse,
	"verse":     songbook.Verse,
	"chorus":    songbook.Chorus,
	"tab":       songbook.Tablature,
	"tablature": songbook.Tablature,
	"comment":   songbook.Comment,
}

// ParseSong converts the markdown text of a song into blocks. Code blocks
// hold verses, or the kind named by their fence info; block quotes are
// choruses; any other paragraph is a comment.
func ParseSong(text string) []songbook.Block {
	md := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	root := md.Parse([]byte(strings.ReplaceAll(text, "\r\n", "\n")))

	var blocks []songbook.Block
	for n := root.FirstChild; n != nil; n = n.Next {
		var b songbook.Block
		switch n.Type {
		case blackfriday.CodeBlock:
			info := strings.ToLower(strings.TrimSpace(string(n.Info)))
			if i := strings.IndexAny(info, " \t{"); i >= 0 {
				info = info[:i]
			}
			kind, ok := fenceKinds[info]
			if !ok {
				kind = songbook.Verse
			}
			b = songbook.Block{Kind: kind, Text: string(n.Literal)}
		case blackfriday.BlockQuote:
			b = songbook.Block{Kind: songbook.Chorus, Text: blockText(n)}
		case blackfriday.HorizontalRule:
			b = songbook.Block{Kind: songbook.Spacer, Size: songbook.BaseFontSize}
		default:
			b = songbook.Block{Kind: songbook.Comment, Text: blockText(n)}
		}
		if b.Kind != songbook.Spacer && strings.TrimSpace(b.Text) == "" {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// blockText collects the text below n, one line per source line and one
// paragraph per line group.
func blockText(n *blackfriday.Node) string {
	var b strings.Builder
	n.Walk(func(c *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch c.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				b.Write(c.Literal)
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			if entering {
				b.WriteByte('\n')
			}
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item:
			if !entering && c != n {
				b.WriteByte('\n')
			}
		}
		return blackfriday.GoToNext
	})
	return strings.TrimRight(b.String(), "\n")
}

package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/debrief/model"
)

// WriteHTML writes blocks as a standalone HTML page. Titles become h1 and
// headings shift one level down; consecutive bullets share one list.
func WriteHTML(w io.Writer, blocks []model.Block) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element("html", html.Attribute{Key: "lang", Val: "nl"})
	doc.AppendChild(root)

	head := element("head")
	head.AppendChild(element("meta", html.Attribute{Key: "charset", Val: "utf-8"}))
	title := element("title")
	title.AppendChild(text(pageTitle(blocks)))
	head.AppendChild(title)
	root.AppendChild(head)

	body := element("body")
	root.AppendChild(body)

	var list *html.Node
	for _, b := range blocks {
		if b.Kind != model.BlockBullet {
			list = nil
		}

		var n *html.Node
		switch b.Kind {
		case model.BlockTitle:
			n = element("h1", html.Attribute{Key: "class", Val: "title"})
		case model.BlockHeading:
			n = element(headingTag(b.Level))
		case model.BlockParagraph:
			n = element("p")
		case model.BlockBullet:
			if list == nil {
				list = element("ul")
				body.AppendChild(list)
			}
			n = element("li")
		default:
			continue
		}

		if style := inlineStyle(b); style != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: style})
		}
		n.AppendChild(text(b.Text))

		if b.Kind == model.BlockBullet {
			list.AppendChild(n)
		} else {
			body.AppendChild(n)
		}
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// headingTag maps a heading level to h2..h6.
func headingTag(level int) string {
	level++
	if level < 2 {
		level = 2
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("h%d", level)
}

func inlineStyle(b model.Block) string {
	var parts []string
	if b.Color != "" {
		parts = append(parts, "color:#"+b.Color)
	}
	if b.Bold {
		parts = append(parts, "font-weight:bold")
	}
	return strings.Join(parts, ";")
}

func pageTitle(blocks []model.Block) string {
	for _, b := range blocks {
		if b.Kind == model.BlockTitle {
			return b.Text
		}
	}
	return "Debriefingsoverzicht"
}

// Package html extracts stats tables from saved or fetched almanac pages.
//
// A page carries its data in the first <table> under <div class="ba-table">.
// Header rows are rows whose every <td> has a class containing "banner"; a
// later banner row replaces the earlier header. Data rows are kept only when
// a header has been seen and the row has the same number of cells.
package html

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"statsetl/internal/table"
)

var (
	// ErrNoTable means the page has no <div class="ba-table"> with a table in it.
	ErrNoTable = errors.New("no ba-table found")
	// ErrNoData means the table had no header row or no matching data rows.
	ErrNoData = errors.New("no valid data found")
)

// Document is a parsed page.
type Document struct {
	root *html.Node
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// Title returns the collapsed text of the first <title> element.
func (d *Document) Title() string {
	n := find(d.root, func(n *html.Node) bool { return isElement(n, "title") })
	if n == nil {
		return ""
	}
	return CollapseWhitespace(textContent(n))
}

// Table extracts the header and data rows of the stats table. skipped counts
// rows with td cells that were neither a header nor the header's width.
func (d *Document) Table() (header []string, rows [][]string, skipped int, err error) {
	div := find(d.root, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "ba-table")
	})
	if div == nil {
		return nil, nil, 0, ErrNoTable
	}
	tbl := find(div, func(n *html.Node) bool { return isElement(n, "table") })
	if tbl == nil {
		return nil, nil, 0, ErrNoTable
	}

	for _, tr := range findAll(tbl, func(n *html.Node) bool { return isElement(n, "tr") }) {
		cells := findAll(tr, func(n *html.Node) bool { return isElement(n, "td") })
		if len(cells) == 0 {
			continue
		}
		texts := make([]string, len(cells))
		banner := true
		for i, c := range cells {
			texts[i] = CollapseWhitespace(textContent(c))
			if !strings.Contains(attr(c, "class"), "banner") {
				banner = false
			}
		}
		switch {
		case banner:
			header = texts
		case header != nil && len(texts) == len(header):
			rows = append(rows, texts)
		default:
			skipped++
		}
	}
	if header == nil || len(rows) == 0 {
		return nil, nil, skipped, ErrNoData
	}
	return header, rows, skipped, nil
}

// Links returns the absolute URLs of anchors for which keep returns true.
// Relative hrefs are resolved against base; unparsable hrefs are ignored.
func (d *Document) Links(base *url.URL, keep func(text string, href *url.URL) bool) []string {
	var out []string
	for _, a := range findAll(d.root, func(n *html.Node) bool { return isElement(n, "a") }) {
		raw := attr(a, "href")
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if keep(CollapseWhitespace(textContent(a)), u) {
			out = append(out, u.String())
		}
	}
	return out
}

// CareerLinks returns links labelled "career" (case-insensitive) that point
// under <site>/<category>/, e.g. the pitching career leader pages listed on
// the pitching menu.
func (d *Document) CareerLinks(base *url.URL, category string) []string {
	prefix := base.Scheme + "://" + base.Host + "/" + strings.Trim(category, "/") + "/"
	return d.Links(base, func(text string, href *url.URL) bool {
		return strings.EqualFold(text, "career") && strings.HasPrefix(href.String(), prefix)
	})
}

// Parser adapts Document to parser.Parser so saved pages can be cleaned
// directly.
type Parser struct{}

// Parse implements parser.Parser.
func (Parser) Parse(r io.Reader) (*table.Table, int, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, 0, err
	}
	header, rows, skipped, err := doc.Table()
	if err != nil {
		return nil, skipped, err
	}
	return table.New(header, rows, nil), skipped, nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// find returns the first node in document order (excluding n) matching ok.
func find(n *html.Node, ok func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ok(c) {
			return c
		}
		if m := find(c, ok); m != nil {
			return m
		}
	}
	return nil
}

// findAll returns every descendant of n matching ok, in document order.
func findAll(n *html.Node, ok func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if ok(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		if p.Type == html.TextNode {
			b.WriteString(p.Data)
			return
		}
		if isElement(p, "br") {
			b.WriteByte(' ')
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

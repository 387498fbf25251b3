// Package extract applies field selector rules to parsed HTML documents.
//
// Selectors are CSS by default (goquery); a selector prefixed with "xpath:"
// is evaluated as an XPath expression (htmlquery). The selector shape picks
// the extraction mode: a selector containing "[href]" yields the href
// attribute of each matched node, "[src]" yields the src attribute, anything
// else yields trimmed text content.
package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const xpathPrefix = "xpath:"

// Rule maps one field name to a selector.
type Rule struct {
	Name     string
	Selector string
}

// Mode is the extraction mode derived from the selector shape.
type Mode int

const (
	ModeText Mode = iota
	ModeHref
	ModeSrc
)

// ModeOf returns the extraction mode a selector implies.
func ModeOf(selector string) Mode {
	switch {
	case strings.Contains(selector, "[href]"):
		return ModeHref
	case strings.Contains(selector, "[src]"):
		return ModeSrc
	default:
		return ModeText
	}
}

// Extractor evaluates field rules against documents.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With("component", "extractor"),
	}
}

// Fields applies every rule to doc and returns one value slice per field.
// Every rule name is present in the result, even when nothing matched.
func (e *Extractor) Fields(doc *goquery.Document, rules []Rule) map[string][]string {
	out := make(map[string][]string, len(rules))
	for _, r := range rules {
		out[r.Name] = e.selectAll(doc, r.Selector)
	}
	return out
}

// FirstMatch tries each selector in order against doc and returns the first
// value extracted, or ok=false when no selector matches.
func (e *Extractor) FirstMatch(doc *goquery.Document, selectors []string) (string, bool) {
	for _, sel := range selectors {
		if vals := e.selectAll(doc, sel); len(vals) > 0 {
			return vals[0], true
		}
	}
	return "", false
}

// selectAll collects the values of every node matched by selector.
func (e *Extractor) selectAll(doc *goquery.Document, selector string) []string {
	mode := ModeOf(selector)

	if expr, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		return e.selectXPath(doc, expr, mode)
	}

	values := []string{}
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		switch mode {
		case ModeHref:
			v, _ := sel.Attr("href")
			values = append(values, v)
		case ModeSrc:
			v, _ := sel.Attr("src")
			values = append(values, v)
		default:
			values = append(values, strings.TrimSpace(sel.Text()))
		}
	})
	return values
}

// selectXPath evaluates an XPath expression against the document root.
func (e *Extractor) selectXPath(doc *goquery.Document, expr string, mode Mode) []string {
	values := []string{}
	if len(doc.Nodes) == 0 {
		return values
	}

	nodes, err := htmlquery.QueryAll(doc.Nodes[0], expr)
	if err != nil {
		e.logger.Warn("bad xpath expression", "xpath", expr, "error", err)
		return values
	}

	for _, n := range nodes {
		switch mode {
		case ModeHref:
			values = append(values, attrValue(n, "href"))
		case ModeSrc:
			values = append(values, attrValue(n, "src"))
		default:
			values = append(values, strings.TrimSpace(htmlquery.InnerText(n)))
		}
	}
	return values
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

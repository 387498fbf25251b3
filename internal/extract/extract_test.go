package extract

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const listingHTML = `<!DOCTYPE html>
<html>
<body>
    <div class="item">
        <h2 class="title"> First Item </h2>
        <a class="item-link" href="/items/1">more</a>
        <img class="thumb" src="/img/1.png">
    </div>
    <div class="item">
        <h2 class="title">Second Item</h2>
        <a class="item-link" href="/items/2">more</a>
        <img class="thumb" src="/img/2.png">
    </div>
    <div class="item">
        <h2 class="title">Third Item</h2>
        <a class="item-link" href="/items/3">more</a>
        <img class="thumb">
    </div>
</body>
</html>`

func makeDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestModeOf(t *testing.T) {
	cases := []struct {
		selector string
		want     Mode
	}{
		{"h2.title", ModeText},
		{"a.item-link[href]", ModeHref},
		{"img.thumb[src]", ModeSrc},
		{"a[href='/x']", ModeText},
	}
	for _, c := range cases {
		if got := ModeOf(c.selector); got != c.want {
			t.Errorf("ModeOf(%q) = %v, want %v", c.selector, got, c.want)
		}
	}
}

func TestFieldsTextExtraction(t *testing.T) {
	e := New(testLogger)
	doc := makeDoc(t, listingHTML)

	fields := e.Fields(doc, []Rule{{Name: "title", Selector: "h2.title"}})

	titles := fields["title"]
	if len(titles) != 3 {
		t.Fatalf("expected 3 titles, got %d", len(titles))
	}
	if titles[0] != "First Item" {
		t.Errorf("expected trimmed text 'First Item', got %q", titles[0])
	}
}

func TestFieldsHrefAndSrcExtraction(t *testing.T) {
	e := New(testLogger)
	doc := makeDoc(t, listingHTML)

	fields := e.Fields(doc, []Rule{
		{Name: "link", Selector: "a.item-link[href]"},
		{Name: "image", Selector: "img.thumb[src]"},
	})

	links := fields["link"]
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	for i, want := range []string{"/items/1", "/items/2", "/items/3"} {
		if links[i] != want {
			t.Errorf("link[%d] = %q, want %q", i, links[i], want)
		}
	}

	// Attribute values, never the anchor text.
	for _, v := range links {
		if v == "more" {
			t.Error("href extraction returned text content")
		}
	}

	images := fields["image"]
	if len(images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(images))
	}
	// The third img has no src attribute: empty value, not an error.
	if images[2] != "" {
		t.Errorf("missing src should yield empty string, got %q", images[2])
	}
}

func TestFieldsNoMatchYieldsEmptySequence(t *testing.T) {
	e := New(testLogger)
	doc := makeDoc(t, listingHTML)

	fields := e.Fields(doc, []Rule{{Name: "missing", Selector: "span.nope"}})

	vals, ok := fields["missing"]
	if !ok {
		t.Fatal("field key absent from result")
	}
	if len(vals) != 0 {
		t.Errorf("expected empty sequence, got %v", vals)
	}
}

func TestFieldsXPath(t *testing.T) {
	e := New(testLogger)
	doc := makeDoc(t, listingHTML)

	fields := e.Fields(doc, []Rule{{Name: "title", Selector: "xpath://h2[@class='title']"}})

	titles := fields["title"]
	if len(titles) != 3 {
		t.Fatalf("expected 3 xpath titles, got %d", len(titles))
	}
	if titles[1] != "Second Item" {
		t.Errorf("xpath title[1] = %q, want 'Second Item'", titles[1])
	}
}

func TestFirstMatchPriority(t *testing.T) {
	e := New(testLogger)
	doc := makeDoc(t, listingHTML)

	// First selector misses, second wins; third is never consulted.
	val, ok := e.FirstMatch(doc, []string{"span.nope", "h2.title", "a.item-link"})
	if !ok {
		t.Fatal("expected a match")
	}
	if val != "First Item" {
		t.Errorf("FirstMatch = %q, want 'First Item'", val)
	}
}

func TestFirstMatchNoMatch(t *testing.T) {
	e := New(testLogger)
	doc := makeDoc(t, listingHTML)

	if _, ok := e.FirstMatch(doc, []string{"span.nope", "div.also-nope"}); ok {
		t.Error("expected no match")
	}
}

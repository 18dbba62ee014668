package render

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// Page is the DOM surface the renderer writes into. Selectors are CSS
// selectors and every mutation reports whether any element matched.
type Page interface {
	Exists(selector string) bool
	SetText(selector, text string) bool
	SetHTML(selector, markup string) bool
	AppendHTML(selector, markup string) bool
	SetAttr(selector, name, value string) bool
	Attr(selector, name string) (string, bool)
}

var _ Page = (*Document)(nil)

// Document is a Page backed by a parsed HTML document.
type Document struct {
	doc *goquery.Document
}

func NewDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) Exists(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

func (d *Document) SetText(selector, text string) bool {
	s := d.doc.Find(selector)
	if s.Length() == 0 {
		return false
	}
	s.SetText(text)
	return true
}

func (d *Document) SetHTML(selector, markup string) bool {
	s := d.doc.Find(selector)
	if s.Length() == 0 {
		return false
	}
	s.SetHtml(markup)
	return true
}

func (d *Document) AppendHTML(selector, markup string) bool {
	s := d.doc.Find(selector)
	if s.Length() == 0 {
		return false
	}
	s.AppendHtml(markup)
	return true
}

func (d *Document) SetAttr(selector, name, value string) bool {
	s := d.doc.Find(selector)
	if s.Length() == 0 {
		return false
	}
	s.SetAttr(name, value)
	return true
}

// Attr reads an attribute of the first matching element.
func (d *Document) Attr(selector, name string) (string, bool) {
	return d.doc.Find(selector).First().Attr(name)
}

// Find exposes the underlying selection for inspection.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

func (d *Document) Render(w io.Writer) error {
	return goquery.Render(w, d.doc.Selection)
}

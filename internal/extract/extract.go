// Package extract is the declarative layer between page bytes and the
// parsers. All knowledge of the site's concrete HTML structure lives in
// Spec values; a site redesign means editing selector specs, not logic.
package extract

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector is a tagged extraction rule.
//
// Query is a CSS selector. With only Query set, the rule yields the text of
// the first match. Attr switches the rule to an attribute value. Label
// narrows the matches to the block whose text starts with the given label
// (e.g. "Status:") and yields the remainder after it; the site groups
// facts into identical blocks distinguished only by such labels.
type Selector struct {
	Query string
	Attr  string
	Label string
}

type Spec map[string]Selector

type Result map[string]string

type Document struct {
	doc *goquery.Document
}

// NewDocument parses page bytes. goquery's parser is lenient, so this only
// fails on truly unreadable input; selector misses surface later as
// missing fields, never as errors.
func NewDocument(b []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Has reports whether the query matches anything at all. The list parser
// uses it to tell "page changed shape" apart from "genuinely empty list".
func (d *Document) Has(query string) bool {
	return d.doc.Find(query).Length() > 0
}

// Extract resolves every field of spec independently. Fields whose
// selector matched nothing are reported in missing, sorted by name.
func (d *Document) Extract(spec Spec) (Result, []string) {
	return extractFrom(d.doc.Selection, spec)
}

// ExtractList applies spec to each match of rowQuery, one Result per row.
// Missing fields are simply absent from that row's Result.
func (d *Document) ExtractList(rowQuery string, spec Spec) []Result {
	var rows []Result
	d.doc.Find(rowQuery).Each(func(_ int, row *goquery.Selection) {
		res, _ := extractFrom(row, spec)
		rows = append(rows, res)
	})
	return rows
}

func extractFrom(root *goquery.Selection, spec Spec) (Result, []string) {
	out := Result{}
	var missing []string

	for field, sel := range spec {
		v, ok := resolve(root, sel)
		if !ok {
			missing = append(missing, field)
			continue
		}
		out[field] = v
	}

	sort.Strings(missing)
	return out, missing
}

func resolve(root *goquery.Selection, sel Selector) (string, bool) {
	matches := root.Find(sel.Query)
	if matches.Length() == 0 {
		return "", false
	}

	if sel.Label != "" {
		label := strings.ToLower(sel.Label)
		var value string
		found := false
		matches.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := cleanText(s.Text())
			if strings.HasPrefix(strings.ToLower(text), label) {
				value = strings.TrimSpace(text[len(sel.Label):])
				found = true
				return false
			}
			return true
		})
		return value, found
	}

	if sel.Attr != "" {
		v, ok := matches.First().Attr(sel.Attr)
		return strings.TrimSpace(v), ok
	}

	return cleanText(matches.First().Text()), true
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
	"github.com/goksgie/basic-myanimelist-crawler/internal/extract"
	"github.com/goksgie/basic-myanimelist-crawler/internal/ports"
)

const DefaultBaseURL = "https://myanimelist.net"

// Watch-list page shape. Structural churn on the site means editing these
// specs, nothing else.
var (
	listTableQuery = "table.list-table"
	listRowQuery   = "table.list-table tr.list-table-data"
	listRowSpec    = extract.Spec{
		"title": {Query: "td.data.title a.link"},
		"url":   {Query: "td.data.title a.link", Attr: "href"},
		"date":  {Query: "td.data.started"},
	}
)

var animeIDFromPath = regexp.MustCompile(`/anime/(\d+)`)

// ListPageParser turns a username into the ordered watch-list entries on
// that user's list page.
type ListPageParser struct {
	logger  zerolog.Logger
	fetcher ports.Fetcher
	baseURL string
}

func NewListPageParser(logger zerolog.Logger, fetcher ports.Fetcher) *ListPageParser {
	return &ListPageParser{logger: logger, fetcher: fetcher, baseURL: DefaultBaseURL}
}

func (p *ListPageParser) WithBaseURL(base string) *ListPageParser {
	if strings.TrimSpace(base) != "" {
		p.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return p
}

// ParseList fetches and parses the "watching" list. A row missing its
// title or link is dropped with a note; the whole parse only fails when
// the page has no recognizable list table at all, or when every row was
// malformed (both mean the site changed shape). A present table with zero
// rows is a genuinely empty list and returns no error.
func (p *ListPageParser) ParseList(ctx context.Context, username string) ([]domain.WatchListEntry, error) {
	pageURL := fmt.Sprintf("%s/animelist/%s?status=1", p.baseURL, url.PathEscape(username))

	body, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ports.FetchStatus(err) == 404 {
			return nil, &CodedError{Code: CodeUserNotFound, Message: "user " + username + " not found", Err: err}
		}
		return nil, &CodedError{Code: CodePageUnavailable, Message: "list page unavailable", Err: err}
	}

	doc, err := extract.NewDocument(body)
	if err != nil {
		return nil, &CodedError{Code: CodeStructuralMismatch, Message: "list page unreadable", Err: err}
	}
	if !doc.Has(listTableQuery) {
		return nil, &CodedError{Code: CodeStructuralMismatch, Message: "list table not found"}
	}

	rows := doc.ExtractList(listRowQuery, listRowSpec)

	entries := make([]domain.WatchListEntry, 0, len(rows))
	seen := map[string]bool{}
	for i, row := range rows {
		title, link := row["title"], row["url"]
		if title == "" || link == "" {
			p.logger.Warn().Int("row", i).Str("user", username).Msg("list row missing title or link, dropped")
			continue
		}

		m := animeIDFromPath.FindStringSubmatch(link)
		if m == nil {
			p.logger.Warn().Int("row", i).Str("href", link).Msg("list row link has no anime id, dropped")
			continue
		}
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true

		entries = append(entries, domain.WatchListEntry{
			AnimeID:   id,
			Title:     title,
			DetailURL: p.resolveURL(link),
			ListDate:  row["date"],
		})
	}

	if len(entries) == 0 && len(rows) > 0 {
		return nil, &CodedError{Code: CodeStructuralMismatch, Message: "no valid rows recovered from list page"}
	}
	return entries, nil
}

func (p *ListPageParser) resolveURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return p.baseURL + "/" + strings.TrimLeft(href, "/")
}

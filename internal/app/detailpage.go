package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/dateparse"
	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
	"github.com/goksgie/basic-myanimelist-crawler/internal/extract"
	"github.com/goksgie/basic-myanimelist-crawler/internal/ports"
)

// Detail page shape: the sidebar renders facts as identical blocks
// distinguished only by their leading label.
var detailSpec = extract.Spec{
	"status":    {Query: "div.spaceit_pad", Label: "Status:"},
	"broadcast": {Query: "div.spaceit_pad", Label: "Broadcast:"},
}

// DetailPageParser turns a detail-page URL into a broadcast schedule.
type DetailPageParser struct {
	logger  zerolog.Logger
	fetcher ports.Fetcher
}

func NewDetailPageParser(logger zerolog.Logger, fetcher ports.Fetcher) *DetailPageParser {
	return &DetailPageParser{logger: logger, fetcher: fetcher}
}

// ParseDetail extracts status and, for currently-airing titles, the
// broadcast day/time. Unrecognized status text degrades to StatusUnknown
// rather than guessing "airing"; a missing status block means the page no
// longer matches the known shape.
func (p *DetailPageParser) ParseDetail(ctx context.Context, animeID, pageURL string) (domain.BroadcastSchedule, error) {
	body, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return domain.BroadcastSchedule{}, &CodedError{Code: CodePageUnavailable, Message: "detail page unavailable", Err: err}
	}

	doc, err := extract.NewDocument(body)
	if err != nil {
		return domain.BroadcastSchedule{}, &CodedError{Code: CodeStructuralMismatch, Message: "detail page unreadable", Err: err}
	}

	fields, missing := doc.Extract(detailSpec)
	for _, f := range missing {
		if f == "status" {
			return domain.BroadcastSchedule{}, &CodedError{Code: CodeStructuralMismatch, Message: "status block not found"}
		}
	}

	sched := domain.BroadcastSchedule{
		AnimeID: animeID,
		Day:     domain.WeekdayUnknown,
		Status:  parseStatus(fields["status"]),
	}

	if sched.Status == domain.StatusAiring {
		day, at, err := dateparse.ParseBroadcast(fields["broadcast"])
		if err != nil {
			p.logger.Warn().Err(err).Str("anime_id", animeID).Msg("broadcast text unusable")
		}
		sched.Day = day
		sched.Time = at
	}

	return sched, nil
}

func parseStatus(text string) domain.AiringStatus {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "currently airing":
		return domain.StatusAiring
	case "finished airing", "finished":
		return domain.StatusFinished
	case "not yet aired":
		return domain.StatusNotYetAired
	}
	return domain.StatusUnknown
}

package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/dateparse"
	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
	"github.com/goksgie/basic-myanimelist-crawler/internal/ports"
)

type CheckerOptions struct {
	// Workers bounds concurrent detail-page fetches.
	Workers int
}

func DefaultCheckerOptions() CheckerOptions {
	return CheckerOptions{Workers: 5}
}

// CheckRequest carries the per-run inputs. Formats holds the user's date
// pattern first, then the optional backup pattern. Reference supplies
// "today"; the site's broadcast day is compared against it as-is unless
// Location is set, in which case JST day/times are converted first.
type CheckRequest struct {
	Username  string
	Formats   []dateparse.Format
	Reference time.Time
	Location  *time.Location
}

// Checker is the orchestration core: list parse, bounded fan-out over
// detail pages, reassembly into original list order.
type Checker struct {
	logger zerolog.Logger
	list   *ListPageParser
	detail *DetailPageParser
	bus    ports.EventBus
	opts   CheckerOptions
}

func NewChecker(logger zerolog.Logger, list *ListPageParser, detail *DetailPageParser, bus ports.EventBus, opts CheckerOptions) *Checker {
	if opts.Workers <= 0 {
		opts.Workers = DefaultCheckerOptions().Workers
	}
	return &Checker{logger: logger, list: list, detail: detail, bus: bus, opts: opts}
}

// Check resolves one Decision per watch-list entry, in list order. List
// page failures are fatal; a detail-page failure costs only that entry its
// verdict. Every entry appears exactly once in the result, even on
// cancellation: anything unfinished comes back as unresolvable.
func (c *Checker) Check(ctx context.Context, req CheckRequest) ([]domain.Decision, error) {
	entries, err := c.list.ParseList(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	c.publish("run.started", map[string]any{"username": req.Username, "entries": len(entries)})

	reference := domain.WeekdayFromTime(req.Reference.Weekday())
	decisions := make([]domain.Decision, len(entries))

	lim := NewLimiter(c.opts.Workers)
	var wg sync.WaitGroup
	for i, entry := range entries {
		c.noteListDate(entry, req.Formats)

		wg.Add(1)
		go func(i int, entry domain.WatchListEntry) {
			defer wg.Done()
			if err := lim.Acquire(ctx); err != nil {
				// run canceled before this entry got a worker slot;
				// the zero decision is filled in below
				return
			}
			defer lim.Release()

			d := c.resolve(ctx, entry, reference, req)
			decisions[i] = d
			c.publish("decision.resolved", d)
		}(i, entry)
	}
	wg.Wait()

	for i, entry := range entries {
		if decisions[i].AnimeID == "" {
			decisions[i] = domain.Decision{
				AnimeID: entry.AnimeID,
				Title:   entry.Title,
				Reason:  domain.ReasonUnresolvable,
			}
		}
	}

	c.publish("run.completed", map[string]any{"username": req.Username, "decisions": len(decisions)})
	return decisions, nil
}

func (c *Checker) resolve(ctx context.Context, entry domain.WatchListEntry, reference domain.Weekday, req CheckRequest) domain.Decision {
	d := domain.Decision{AnimeID: entry.AnimeID, Title: entry.Title}

	sched, err := c.detail.ParseDetail(ctx, entry.AnimeID, entry.DetailURL)
	if err != nil {
		c.logger.Warn().Err(err).Str("anime_id", entry.AnimeID).Str("title", entry.Title).Msg("detail page failed, entry unresolvable")
		d.Reason = domain.ReasonUnresolvable
		return d
	}

	if req.Location != nil && sched.Status == domain.StatusAiring && sched.Day.Known() && sched.Time != nil {
		day, at := dateparse.ShiftFromJST(sched.Day, *sched.Time, req.Location, req.Reference)
		sched.Day = day
		sched.Time = &at
	}

	d.AirsToday, d.Reason = domain.Decide(sched, reference)
	d.Day = sched.Day
	d.Time = sched.Time
	return d
}

// noteListDate parses the entry's rendered date purely as bookkeeping.
// Failures are logged and never affect the airing verdict.
func (c *Checker) noteListDate(entry domain.WatchListEntry, formats []dateparse.Format) {
	if entry.ListDate == "" || len(formats) == 0 {
		return
	}
	if _, err := dateparse.ParseAny(entry.ListDate, formats...); err != nil {
		c.logger.Warn().Err(err).Str("anime_id", entry.AnimeID).Str("date", entry.ListDate).Msg("list date does not match configured format")
	}
}

func (c *Checker) publish(topic string, payload any) {
	if c.bus == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.bus.Publish(topic, b)
}

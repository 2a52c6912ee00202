package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/adapters/malhttp"
	"github.com/goksgie/basic-myanimelist-crawler/internal/app"
	"github.com/goksgie/basic-myanimelist-crawler/internal/config"
	"github.com/goksgie/basic-myanimelist-crawler/internal/dateparse"
	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
)

func main() {
	def := config.Default()
	user := flag.String("user", "", "MyAnimeList username (required)")
	dateFormat := flag.String("date-format", "", "date pattern the site renders for this user, e.g. DD-MM-YYYY (required)")
	dateFormatBackup := flag.String("date-format-backup", "", "fallback date pattern tried when the primary fails")
	location := flag.String("location", "", "IANA timezone (e.g. Europe/Berlin); enables JST broadcast conversion")
	baseURL := flag.String("base-url", def.BaseURL, "site base URL")
	workers := flag.Int("workers", def.Workers, "max concurrent detail-page fetches")
	timeout := flag.Duration("timeout", def.Timeout, "per-request HTTP timeout")
	runTimeout := flag.Duration("run-timeout", 5*time.Minute, "overall run deadline")
	asJSON := flag.Bool("json", false, "emit line-delimited JSON decisions instead of text")
	icalPath := flag.String("ical", "", "also write airing-today titles as an ICS calendar to this path")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	if *user == "" || *dateFormat == "" {
		fmt.Fprintln(os.Stderr, "Usage: malcrawler --user <name> --date-format <pattern> [options]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	req := app.CheckRequest{Username: *user, Reference: time.Now()}
	for _, p := range []string{*dateFormat, *dateFormatBackup} {
		if p == "" {
			continue
		}
		f, err := dateparse.ParseFormat(p)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Invalid date format:", err)
			os.Exit(2)
		}
		req.Formats = append(req.Formats, f)
	}
	if *location != "" {
		loc, err := time.LoadLocation(*location)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Invalid location:", err)
			os.Exit(2)
		}
		req.Location = loc
		req.Reference = req.Reference.In(loc)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *runTimeout)
	defer cancel()

	fetcher := malhttp.New(logger, *timeout)
	list := app.NewListPageParser(logger, fetcher).WithBaseURL(*baseURL)
	detail := app.NewDetailPageParser(logger, fetcher)
	checker := app.NewChecker(logger, list, detail, nil, app.CheckerOptions{Workers: *workers})

	decisions, err := checker.Check(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, d := range decisions {
			_ = enc.Encode(d)
		}
	} else {
		renderText(decisions)
	}

	if *icalPath != "" {
		cal := app.BuildCalendar(decisions, req.Reference)
		if err := os.WriteFile(*icalPath, []byte(cal.Serialize()), 0o644); err != nil {
			logger.Error().Err(err).Str("path", *icalPath).Msg("failed to write calendar")
			os.Exit(1)
		}
	}
}

func renderText(decisions []domain.Decision) {
	for _, d := range decisions {
		verdict := "not airing today"
		switch {
		case d.AirsToday:
			verdict = "airing TODAY"
			if d.Time != nil {
				verdict += " at " + d.Time.String()
			}
		case d.Reason == domain.ReasonUnresolvable:
			verdict = "could not determine"
		}
		fmt.Printf("%s: %s (%s)\n", d.Title, verdict, d.Reason)
	}
}

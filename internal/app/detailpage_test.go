package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/adapters/malhttp"
	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
)

func serveDetail(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
}

func newDetailParser(t *testing.T) *DetailPageParser {
	t.Helper()
	return NewDetailPageParser(zerolog.Nop(), malhttp.New(zerolog.Nop(), 5*time.Second))
}

func TestParseDetail_AiringWithBroadcast(t *testing.T) {
	ts := serveDetail(t, `<div class="spaceit_pad"><span>Status:</span> Currently Airing</div>
<div class="spaceit_pad"><span>Broadcast:</span> Sundays at 17:30 (JST)</div>`)
	defer ts.Close()

	sched, err := newDetailParser(t).ParseDetail(context.Background(), "21", ts.URL)
	if err != nil {
		t.Fatalf("ParseDetail: %v", err)
	}
	if sched.Status != domain.StatusAiring {
		t.Errorf("status: got %s", sched.Status)
	}
	if sched.Day != domain.WeekdaySunday {
		t.Errorf("day: got %s", sched.Day)
	}
	if sched.Time == nil || *sched.Time != (domain.LocalTime{Hour: 17, Minute: 30}) {
		t.Errorf("time: got %v", sched.Time)
	}
}

func TestParseDetail_FinishedSkipsBroadcast(t *testing.T) {
	ts := serveDetail(t, `<div class="spaceit_pad"><span>Status:</span> Finished Airing</div>
<div class="spaceit_pad"><span>Broadcast:</span> Sundays at 17:30 (JST)</div>`)
	defer ts.Close()

	sched, err := newDetailParser(t).ParseDetail(context.Background(), "20", ts.URL)
	if err != nil {
		t.Fatalf("ParseDetail: %v", err)
	}
	if sched.Status != domain.StatusFinished {
		t.Errorf("status: got %s", sched.Status)
	}
	if sched.Day != domain.WeekdayUnknown || sched.Time != nil {
		t.Errorf("finished shows must not carry a schedule, got (%s, %v)", sched.Day, sched.Time)
	}
}

func TestParseDetail_UnrecognizedStatusDegrades(t *testing.T) {
	ts := serveDetail(t, `<div class="spaceit_pad"><span>Status:</span> On Hiatus</div>`)
	defer ts.Close()

	sched, err := newDetailParser(t).ParseDetail(context.Background(), "9", ts.URL)
	if err != nil {
		t.Fatalf("ParseDetail: %v", err)
	}
	if sched.Status != domain.StatusUnknown {
		t.Errorf("status: got %s, want %s", sched.Status, domain.StatusUnknown)
	}
}

func TestParseDetail_AiringWithoutBroadcastText(t *testing.T) {
	ts := serveDetail(t, `<div class="spaceit_pad"><span>Status:</span> Currently Airing</div>`)
	defer ts.Close()

	sched, err := newDetailParser(t).ParseDetail(context.Background(), "9", ts.URL)
	if err != nil {
		t.Fatalf("ParseDetail: %v", err)
	}
	if sched.Status != domain.StatusAiring {
		t.Errorf("status: got %s", sched.Status)
	}
	if sched.Day != domain.WeekdayUnknown {
		t.Errorf("day: got %s, want unknown", sched.Day)
	}
}

func TestParseDetail_MissingStatusBlockIsStructuralMismatch(t *testing.T) {
	ts := serveDetail(t, `<div class="other">nothing of interest</div>`)
	defer ts.Close()

	_, err := newDetailParser(t).ParseDetail(context.Background(), "9", ts.URL)
	if !IsCode(err, CodeStructuralMismatch) {
		t.Fatalf("want %s, got %v", CodeStructuralMismatch, err)
	}
}

func TestParseDetail_FetchFailureIsPageUnavailable(t *testing.T) {
	ts := serveDetail(t, "unused")
	ts.Close() // connection refused from here on

	_, err := newDetailParser(t).ParseDetail(context.Background(), "9", ts.URL)
	if !IsCode(err, CodePageUnavailable) {
		t.Fatalf("want %s, got %v", CodePageUnavailable, err)
	}
}

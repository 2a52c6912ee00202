package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/adapters/malhttp"
)

const listFixture = `<html><body>
<table class="list-table">
<tr class="list-table-data">
  <td class="data title"><a class="link" href="/anime/21/One_Piece">One Piece</a></td>
  <td class="data started">05-01-2024</td>
</tr>
<tr class="list-table-data">
  <td class="data title"><a class="link" href="/anime/20/Naruto">Naruto</a></td>
  <td class="data started">12-03-2024</td>
</tr>
<tr class="list-table-data">
  <td class="data other">broken row</td>
</tr>
</table>
</body></html>`

func newListParser(t *testing.T, ts *httptest.Server) *ListPageParser {
	t.Helper()
	fetcher := malhttp.New(zerolog.Nop(), 5*time.Second)
	return NewListPageParser(zerolog.Nop(), fetcher).WithBaseURL(ts.URL)
}

func TestParseList_RecoversEntriesAndDropsBrokenRows(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/animelist/goksgie" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(listFixture))
	}))
	defer ts.Close()

	entries, err := newListParser(t, ts).ParseList(context.Background(), "goksgie")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].AnimeID != "21" || entries[0].Title != "One Piece" {
		t.Errorf("entry 0: %+v", entries[0])
	}
	if entries[0].DetailURL != ts.URL+"/anime/21/One_Piece" {
		t.Errorf("entry 0 url: %q", entries[0].DetailURL)
	}
	if entries[0].ListDate != "05-01-2024" {
		t.Errorf("entry 0 date: %q", entries[0].ListDate)
	}
	if entries[1].AnimeID != "20" || entries[1].Title != "Naruto" {
		t.Errorf("entry 1: %+v", entries[1])
	}
}

func TestParseList_404SignalsUserNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newListParser(t, ts).ParseList(context.Background(), "nobody")
	if !IsCode(err, CodeUserNotFound) {
		t.Fatalf("want %s, got %v", CodeUserNotFound, err)
	}
}

func TestParseList_EmptyListIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table class="list-table"></table></body></html>`))
	}))
	defer ts.Close()

	entries, err := newListParser(t, ts).ParseList(context.Background(), "goksgie")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries: got %d, want 0", len(entries))
	}
}

func TestParseList_MissingTableIsStructuralMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>redesigned page</div></body></html>`))
	}))
	defer ts.Close()

	_, err := newListParser(t, ts).ParseList(context.Background(), "goksgie")
	if !IsCode(err, CodeStructuralMismatch) {
		t.Fatalf("want %s, got %v", CodeStructuralMismatch, err)
	}
}

func TestParseList_AllRowsBrokenIsStructuralMismatch(t *testing.T) {
	page := `<table class="list-table">
<tr class="list-table-data"><td class="data other">x</td></tr>
<tr class="list-table-data"><td class="data other">y</td></tr>
</table>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()

	_, err := newListParser(t, ts).ParseList(context.Background(), "goksgie")
	if !IsCode(err, CodeStructuralMismatch) {
		t.Fatalf("want %s, got %v", CodeStructuralMismatch, err)
	}
}

func TestParseList_DuplicateIDsKeepFirst(t *testing.T) {
	page := `<table class="list-table">
<tr class="list-table-data"><td class="data title"><a class="link" href="/anime/21/One_Piece">One Piece</a></td></tr>
<tr class="list-table-data"><td class="data title"><a class="link" href="/anime/21/One_Piece">One Piece again</a></td></tr>
</table>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()

	entries, err := newListParser(t, ts).ParseList(context.Background(), "goksgie")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "One Piece" {
		t.Fatalf("entries: %+v", entries)
	}
}

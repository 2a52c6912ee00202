package httpapi

import (
	"net/http"
	"time"

	"github.com/goksgie/basic-myanimelist-crawler/internal/app"
	"github.com/goksgie/basic-myanimelist-crawler/internal/dateparse"
	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
	"github.com/goksgie/basic-myanimelist-crawler/internal/httpjson"
)

type airingResponse struct {
	Username     string            `json:"username"`
	ReferenceDay domain.Weekday    `json:"referenceDay"`
	Decisions    []domain.Decision `json:"decisions"`
}

// GET /api/v1/airing?user=<name>&dateFormat=<pattern>
// Optional: dateFormatBackup, location (IANA zone enabling JST conversion).
func (s *Server) handleAiring(w http.ResponseWriter, r *http.Request) {
	req, ok := s.checkRequest(w, r)
	if !ok {
		return
	}

	decisions, err := s.svc.Check(r.Context(), req)
	if err != nil {
		s.writeCheckError(w, err)
		return
	}

	httpjson.Write(w, http.StatusOK, airingResponse{
		Username:     req.Username,
		ReferenceDay: domain.WeekdayFromTime(req.Reference.Weekday()),
		Decisions:    decisions,
	})
}

// GET /api/v1/airing/calendar.ics takes the same query surface and
// answers with an ICS body.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	req, ok := s.checkRequest(w, r)
	if !ok {
		return
	}

	decisions, err := s.svc.Check(r.Context(), req)
	if err != nil {
		s.writeCheckError(w, err)
		return
	}

	cal := app.BuildCalendar(decisions, req.Reference)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="airing-today.ics"`)
	_, _ = w.Write([]byte(cal.Serialize()))
}

func (s *Server) checkRequest(w http.ResponseWriter, r *http.Request) (app.CheckRequest, bool) {
	q := r.URL.Query()

	username := q.Get("user")
	if username == "" {
		httpjson.Error(w, http.StatusBadRequest, "missing_user", "query parameter 'user' is required")
		return app.CheckRequest{}, false
	}

	pattern := q.Get("dateFormat")
	if pattern == "" {
		httpjson.Error(w, http.StatusBadRequest, "missing_date_format", "query parameter 'dateFormat' is required")
		return app.CheckRequest{}, false
	}

	var formats []dateparse.Format
	for _, p := range []string{pattern, q.Get("dateFormatBackup")} {
		if p == "" {
			continue
		}
		f, err := dateparse.ParseFormat(p)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid_date_format", err.Error())
			return app.CheckRequest{}, false
		}
		formats = append(formats, f)
	}

	req := app.CheckRequest{
		Username:  username,
		Formats:   formats,
		Reference: time.Now(),
	}

	if zone := q.Get("location"); zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid_location", err.Error())
			return app.CheckRequest{}, false
		}
		req.Location = loc
		req.Reference = req.Reference.In(loc)
	}

	return req, true
}

func (s *Server) writeCheckError(w http.ResponseWriter, err error) {
	switch {
	case app.IsCode(err, app.CodeUserNotFound):
		httpjson.Error(w, http.StatusNotFound, app.CodeUserNotFound, err.Error())
	case app.IsCode(err, app.CodeStructuralMismatch):
		httpjson.Error(w, http.StatusBadGateway, app.CodeStructuralMismatch, err.Error())
	case app.IsCode(err, app.CodePageUnavailable):
		httpjson.Error(w, http.StatusBadGateway, app.CodePageUnavailable, err.Error())
	default:
		s.logger.Error().Err(err).Msg("airing check failed")
		httpjson.Error(w, http.StatusInternalServerError, "internal", "airing check failed")
	}
}

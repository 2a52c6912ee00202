package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/app"
	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
	"github.com/goksgie/basic-myanimelist-crawler/internal/ports"
)

// AiringService is what the HTTP surface needs from the app layer.
type AiringService interface {
	Check(ctx context.Context, req app.CheckRequest) ([]domain.Decision, error)
}

type Server struct {
	logger zerolog.Logger
	svc    AiringService
	bus    ports.EventBus
}

func NewServer(logger zerolog.Logger, svc AiringService, bus ports.EventBus) *Server {
	return &Server{logger: logger, svc: svc, bus: bus}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/events", s.handleEvents)
		r.Get("/airing", s.handleAiring)
		r.Get("/airing/calendar.ics", s.handleCalendar)
	})

	return r
}

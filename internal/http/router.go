package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/lmarenco/eventreg/internal/cache"
	"github.com/lmarenco/eventreg/internal/clock"
	"github.com/lmarenco/eventreg/internal/config"
	"github.com/lmarenco/eventreg/internal/http/handlers"
	"github.com/lmarenco/eventreg/internal/http/middlewares"
	"github.com/lmarenco/eventreg/internal/observability"
)

// Deps carries everything the router wires together. Stores are interfaces
// so tests can mount the in-memory implementations.
type Deps struct {
	Log       *slog.Logger
	Cfg       config.Config
	Clock     clock.Clock
	Events    handlers.EventsStore
	Attendees handlers.AttendeesStore
	Cache     cache.Store
	Prom      *observability.Prom
	Registry  *prometheus.Registry
	ReadyPing func() error
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())

	if d.Log != nil {
		r.Use(middlewares.RequestLogger(d.Log))
	}

	r.Use(middlewares.SecurityHeaders())

	if len(d.Cfg.CORSAllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(d.Cfg.CORSAllowedOrigins))
	}

	r.Use(middlewares.RequireJSON())

	if d.Cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.Cfg.MaxBodyBytes))
	}

	if d.Cfg.RateLimit > 0 {
		rl := middlewares.NewRateLimiter(d.Cfg.RateLimit, d.Cfg.RateWindow)
		r.Use(rl.Middleware())
	}

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	if d.Cfg.OTELEndpoint != "" {
		r.Use(otelgin.Middleware("eventreg"))
	}

	h := handlers.NewHealthHandler(d.ReadyPing)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	loc := d.Cfg.Location()

	eventsHandler := handlers.NewEventsHandler(d.Events, d.Clock, loc, d.Cache, d.Prom)
	attendeesHandler := handlers.NewAttendeesHandler(d.Attendees, d.Clock, loc)

	// GET /events/ (trailing slash) is served through gin's default
	// RedirectTrailingSlash.
	r.POST("/events", eventsHandler.CreateEvent)
	r.GET("/events", eventsHandler.ListUpcoming)
	r.POST("/events/:id/register", attendeesHandler.Register)
	r.GET("/events/:id/attendees", attendeesHandler.ListForEvent)

	return r
}

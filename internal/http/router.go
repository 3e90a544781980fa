package httpapi

import (
	stdhttp "net/http"
	"time"

	"server/internal/http/handlers"
	appmw "server/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	DefaultLocale  string
	AllowedOrigins []string
	RateLimit      int
	RatePer        time.Duration
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		appmw.I18N(opts.DefaultLocale),
		appmw.Logger(*app.Log),
	)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(appmw.CORS(opts.AllowedOrigins))
	}

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/catalog", func(r chi.Router) {
		r.Get("/", app.ListOccasions)
		r.Get("/{occasion}", app.GetOccasion)
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetSession)
			r.Post("/select", app.SelectOptions)
			r.Route("/slots/{slot}", func(r chi.Router) {
				r.Post("/upload", app.UploadSlot)
				r.Post("/reload", app.ReloadSlot)
				r.With(appmw.RateLimit(opts.RateLimit, opts.RatePer)).
					Post("/generate", app.GenerateSlot)
			})
			r.With(appmw.RateLimit(opts.RateLimit, opts.RatePer)).
				Post("/generate", app.GenerateCombined)
		})
	})

	return r
}

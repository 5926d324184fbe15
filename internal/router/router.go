package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "hospital-record-sync/docs"
	"hospital-record-sync/internal/domain/patients"
	"hospital-record-sync/internal/middleware"
	"hospital-record-sync/internal/platform/logger"
)

type Options struct {
	// Patients llega ya cableado con storage y publisher: acá solo se
	// montan rutas y middleware.
	Patients *patients.Service

	// Log opcional; si viene, se loguea cada request.
	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Log != nil {
		r.Use(middleware.RequestLogger(opts.Log))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	patients.RegisterRoutes(r, opts.Patients)

	return r
}

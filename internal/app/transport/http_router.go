package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/farescout/flight-scraper-service/internal/app/config"
	"github.com/farescout/flight-scraper-service/internal/app/dto"
	"github.com/farescout/flight-scraper-service/internal/app/endpoints"
	httptransport "github.com/farescout/flight-scraper-service/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1/scrapes", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Post("/flight", httptransport.MakeHandlerFunc(
			endpts.ScraperEndpoint.ScrapeFlight,
			httptransport.DecodeRequest[dto.SearchRequest],
			httptransport.ResponseWithBody,
		))

		router.Post("/routes", httptransport.MakeHandlerFunc(
			endpts.ScraperEndpoint.ScrapeRoutes,
			httptransport.DecodeRequest[dto.RoutesRequest],
			httptransport.ResponseWithBody,
		))

		router.Post("/date-grid", httptransport.MakeHandlerFunc(
			endpts.ScraperEndpoint.ScrapeDateGrid,
			httptransport.DecodeRequest[dto.DateGridRequest],
			httptransport.ResponseWithBody,
		))
	})

	return router
}

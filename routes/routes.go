package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Mas2205/UrbanFootCenter-sub000/handlers"
	"github.com/Mas2205/UrbanFootCenter-sub000/middleware"
)

// SetupRoutes собирает публичные и защищённые маршруты движка турниров.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	auth *middleware.Authenticator,
	tournamentHandler *handlers.TournamentHandler,
	participationHandler *handlers.ParticipationHandler,
	matchHandler *handlers.MatchHandler,
	drawHandler *handlers.DrawHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/api", func(r chi.Router) {
		r.Route("/tournaments", func(r chi.Router) {
			// Публичные маршруты просмотра.
			r.Get("/", tournamentHandler.ListHandler)
			r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
			r.Get("/{tournamentID}/participations", participationHandler.ListHandler)
			r.Get("/{tournamentID}/matches", matchHandler.ListByTournamentHandler)
			r.Get("/{tournamentID}/standings", standingsHandler.GetStandingsHandler)
			r.Get("/{tournamentID}/qualifiers", standingsHandler.GetQualifiersHandler)

			// Подача заявки: требует аутентификации (капитан команды).
			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Post("/{tournamentID}/participations", participationHandler.RequestHandler)
			})

			// Административные операции.
			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireAdmin)

				r.Post("/", tournamentHandler.CreateHandler)
				r.Put("/{tournamentID}", tournamentHandler.UpdateDetailsHandler)
				r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatusHandler)
				r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)

				r.Post("/{tournamentID}/draw", drawHandler.GenerateHandler)
				r.Post("/{tournamentID}/request-redraw", drawHandler.RequestRedrawHandler)
				r.Post("/{tournamentID}/confirm-redraw", drawHandler.ConfirmRedrawHandler)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/{matchID}", matchHandler.GetByIDHandler)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireAdmin)
				r.Post("/{matchID}/result", matchHandler.RecordResultHandler)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireAdmin)
			r.Patch("/participations/{participationID}/review", participationHandler.ReviewHandler)
		})
	})

	// Live-трансляция событий турнира.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}

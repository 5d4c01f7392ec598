package routes

import (
	"github.com/gamebay/tournament-engine/handlers"
	"github.com/gamebay/tournament-engine/middleware"
	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Tournament  *handlers.TournamentHandler
	Participant *handlers.ParticipantHandler
	Bracket     *handlers.BracketHandler
	Match       *handlers.MatchHandler
	Dispute     *handlers.DisputeHandler
	Payout      *handlers.PayoutHandler
	Evidence    *handlers.EvidenceHandler
	WebSocket   *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, authService services.AuthService) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(authService)
	operatorOnly := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/participants", h.Participant.List)
		r.Get("/{tournamentID}/bracket", h.Bracket.Get)
		r.Get("/{tournamentID}/matches/{matchID}", h.Match.Get)
		r.Get("/{tournamentID}/ws", h.WebSocket.TournamentRoom)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{tournamentID}/participants", h.Participant.Register)
			r.Post("/{tournamentID}/matches/{matchID}/result", h.Match.SubmitResult)
			r.Post("/{tournamentID}/matches/{matchID}/disputes", h.Dispute.File)
			r.Get("/{tournamentID}/disputes", h.Dispute.List)
			r.Get("/{tournamentID}/disputes/{disputeID}", h.Dispute.Get)

			r.Group(func(r chi.Router) {
				r.Use(operatorOnly)

				r.Post("/", h.Tournament.Create)
				r.Patch("/{tournamentID}/status", h.Tournament.UpdateStatus)
				r.Post("/{tournamentID}/participants/{participantID}/payment", h.Participant.ConfirmPayment)
				r.Post("/{tournamentID}/bracket", h.Bracket.Generate)
				r.Post("/{tournamentID}/matches/{matchID}/start", h.Match.Start)
				r.Post("/{tournamentID}/matches/{matchID}/force-resolve", h.Match.ForceResolve)
				r.Post("/{tournamentID}/disputes/{disputeID}/resolve", h.Dispute.Resolve)
				r.Get("/{tournamentID}/payouts", h.Payout.List)
			})
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/evidence", h.Evidence.Upload)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/payouts/{payoutID}/paid", h.Payout.MarkPaid)
			r.Post("/payouts/{payoutID}/failed", h.Payout.MarkFailed)
		})
	})
}

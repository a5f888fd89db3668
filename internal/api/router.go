package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/login", h.Login)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/me", h.Me)

			r.Post("/nervi", h.Nervi)
			r.Get("/nervi/history", h.ChatHistory)

			r.Get("/master-schedule", h.GetMasterSchedule)
			r.Post("/master-schedule", h.PutMasterSchedule)
			r.Post("/master-schedule/apply", h.ApplyScheduleReply)

			r.Get("/nervi-daily-read", h.DailyRead)

			r.Get("/triggers-buffers", h.ListTriggerBuffers)
			r.Post("/triggers-buffers", h.MutateTriggerBuffer)

			r.Post("/notes", h.CreateNote)
			r.Get("/notes", h.ListNotes)
			r.Delete("/notes/{noteID}", h.DeleteNote)
			r.Post("/checkins", h.CreateCheckIn)
			r.Get("/checkins", h.ListCheckIns)

			r.Get("/life-story", h.GetLifeStory)
			r.Post("/life-story/extract", h.ExtractLifeStory)

			r.Post("/program/generate", h.GenerateProgram)
			r.Get("/program/latest", h.LatestProgram)

			r.Get("/daily-tasks", h.ListDailyTasks)
			r.Post("/daily-tasks/custom", h.CreateCustomTask)
			r.Put("/daily-tasks/custom/{taskID}", h.UpdateCustomTask)
			r.Delete("/daily-tasks/custom/{taskID}", h.DeleteCustomTask)

			r.Post("/apply-promo-code", h.ApplyPromoCode)

			r.Post("/push/subscribe", h.PushSubscribe)
		})

		// Cron routes, guarded by a shared secret header
		r.Group(func(r chi.Router) {
			r.Use(h.RequireCronSecret)

			r.Post("/program/auto-generate", h.AutoGeneratePrograms)
			r.Post("/push/send-due", h.PushSendDue)
		})
	})

	return r
}

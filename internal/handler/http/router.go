package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hakenworks/staffing-backend-go/internal/handler/http/middleware"
)

func NewRouter(
	tokenAuth *jwtauth.JWTAuth,
	payrollHandler PayrollHandler,
	advanceHandler AdvanceHandler,
	frontendURL string,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "staffing-backoffice"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(middleware.AuthRequired(tokenAuth))

			r.Route("/payroll/runs/{month}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetRun)
				r.Post("/aggregate", payrollHandler.RunAggregation)
				r.Post("/clear", payrollHandler.ClearRun)
				r.Post("/submit", payrollHandler.SubmitForApproval)
				r.Post("/approve", payrollHandler.Approve)
				r.Post("/reject", payrollHandler.Reject)
				r.Get("/summary", payrollHandler.GetSummary)
				r.Get("/export", payrollHandler.ExportRecords)
				r.Patch("/records/{workerId}", payrollHandler.EditRecord)
			})

			r.Route("/advances", func(r chi.Router) {
				r.Post("/", advanceHandler.CreateRequest)
				r.Get("/", advanceHandler.ListRequests)
				r.Get("/{id}", advanceHandler.GetRequest)
				r.Post("/{id}/approve", advanceHandler.Approve)
				r.Post("/{id}/reject", advanceHandler.Reject)
				r.Post("/bulk/approve", advanceHandler.BulkApprove)
				r.Post("/bulk/reject", advanceHandler.BulkReject)
			})

			r.Get("/workers/{workerId}/advance-total", advanceHandler.GetMonthlyTotal)
		})
	})
	return r
}

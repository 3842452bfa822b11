package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/mir-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	punchHandler PunchHandler,
	attendanceHandler AttendanceHandler,
	overtimeHandler OvertimeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Device-facing; authenticated per request by device API key.
		r.Post("/punches", punchHandler.Punch)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/records", attendanceHandler.ListRecords)
				r.Get("/stats", attendanceHandler.Stats)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/process-logs", attendanceHandler.ProcessLogs)
					r.Post("/process-selected", attendanceHandler.ProcessSelected)
				})
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Route("/summary", func(r chi.Router) {
					r.Get("/weekly", overtimeHandler.WeeklySummary)
					r.Get("/monthly", overtimeHandler.MonthlySummary)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/recalculate", overtimeHandler.Recalculate)
					r.Post("/recalculate-holidays", overtimeHandler.RecalculateHolidays)
				})
			})
		})
	})
	return r
}

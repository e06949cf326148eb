// Package api wires the HTTP surface: repositories, domain services,
// handlers, and the middleware chain.
package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/ashgrove-hs/housepoints/internal/api/handlers"
	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/config"
	"github.com/ashgrove-hs/housepoints/internal/domain/archive"
	"github.com/ashgrove-hs/housepoints/internal/domain/auth"
	"github.com/ashgrove-hs/housepoints/internal/domain/points"
	"github.com/ashgrove-hs/housepoints/internal/domain/roster"
	"github.com/ashgrove-hs/housepoints/internal/metrics"
	"github.com/ashgrove-hs/housepoints/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter builds the full handler chain. Every route passes through
// request logging, CORS (which also answers all preflights), and the
// metrics middleware; auth gates are applied per route.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	auditor := audit.NewLogger(repo.Audit(), logger)
	authService := auth.NewService(repo.Users())
	rosterService := roster.NewService(repo, cfg.Roster.FallbackTeacherID)
	pointsService := points.NewService(repo)
	archiveService := archive.NewService(repo, logger, auditor)

	authHandler := handlers.NewAuthHandler(authService, rosterService, auditor)
	studentsHandler := handlers.NewStudentsHandler(rosterService, auditor)
	teachersHandler := handlers.NewTeachersHandler(rosterService, auditor)
	housesHandler := handlers.NewHousesHandler(pointsService, auditor)
	pointsHandler := handlers.NewPointsHandler(pointsService, auditor)
	archiveHandler := handlers.NewArchiveHandler(archiveService, auditor)
	logsHandler := handlers.NewLogsHandler(repo.Audit(), auditor)
	searchHandler := handlers.NewSearchHandler(rosterService, auditor)

	requireUser := middleware.RequireUser(authService, auditor)
	requireAdmin := middleware.RequireAdmin(authService, auditor)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	mux.Handle("/admin", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(authHandler.AdminPage),
	}))
	mux.Handle("/search_teachers", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(searchHandler.Teachers),
	}))

	mux.Handle("/api/search_users", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(searchHandler.Users),
	}))
	mux.Handle("/api/currentuser", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(authHandler.CurrentUser),
	}))
	mux.Handle("/api/isadmin", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(authHandler.IsAdmin),
	}))
	mux.Handle("/api/editself", methodMux(map[string]http.Handler{
		http.MethodPut: http.HandlerFunc(authHandler.EditSelf),
	}))

	mux.Handle("/api/getstudents", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(studentsHandler.List),
	}))
	mux.Handle("/api/addstudent", methodMux(map[string]http.Handler{
		http.MethodPost: requireUser(http.HandlerFunc(studentsHandler.Add)),
	}))
	mux.Handle("/api/editstudent", methodMux(map[string]http.Handler{
		http.MethodPut: requireUser(http.HandlerFunc(studentsHandler.Edit)),
	}))
	mux.Handle("/api/deletestudent", methodMux(map[string]http.Handler{
		http.MethodDelete: requireUser(http.HandlerFunc(studentsHandler.Delete)),
	}))
	mux.Handle("/api/deleteallstudents", methodMux(map[string]http.Handler{
		http.MethodDelete: requireAdmin(http.HandlerFunc(studentsHandler.DeleteAll)),
	}))

	mux.Handle("/api/getteachers", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(teachersHandler.List),
	}))
	mux.Handle("/api/addteacher", methodMux(map[string]http.Handler{
		http.MethodPost: requireAdmin(http.HandlerFunc(teachersHandler.Add)),
	}))
	mux.Handle("/api/editteacher", methodMux(map[string]http.Handler{
		http.MethodPut: requireUser(http.HandlerFunc(teachersHandler.Edit)),
	}))
	mux.Handle("/api/deleteteacher", methodMux(map[string]http.Handler{
		http.MethodDelete: requireUser(http.HandlerFunc(teachersHandler.Delete)),
	}))

	mux.Handle("/api/gethouses", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(housesHandler.List),
	}))
	mux.Handle("/api/gethousepoints", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(housesHandler.HousePoints),
	}))
	mux.Handle("/api/topteachers", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(housesHandler.TopTeachers),
	}))
	mux.Handle("/api/topstudents", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(housesHandler.TopStudents),
	}))
	mux.Handle("/api/clearhousepoints", methodMux(map[string]http.Handler{
		http.MethodPost: requireAdmin(http.HandlerFunc(housesHandler.ClearAll)),
	}))

	mux.Handle("/api/awardpoints", methodMux(map[string]http.Handler{
		http.MethodPost: requireUser(http.HandlerFunc(pointsHandler.Award)),
	}))

	mux.Handle("/api/logs", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(logsHandler.List),
	}))
	mux.Handle("/api/archive", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(archiveHandler.List),
		http.MethodPost: requireUser(http.HandlerFunc(archiveHandler.Create)),
	}))

	var handler http.Handler = metrics.HTTPMiddleware(mux)
	handler = middleware.CORS(cfg.Server.FrontendOrigin)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

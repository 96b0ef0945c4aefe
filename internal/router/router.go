// Package router sets up all HTTP routes and middleware chains for the
// MillCMS back office. It organizes routes into public and admin groups
// with appropriate middleware stacks.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"millcms/internal/handlers"
	"millcms/internal/middleware"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

// healthTimeout bounds each health check.
const healthTimeout = 2 * time.Second

// Deps are everything the route tree needs. LoginLimiter may be nil.
type Deps struct {
	Sessions      middleware.SessionGetter
	AuthTimeout   time.Duration
	SecureCookies bool
	LoginLimiter  *middleware.RateLimiter
	// TrustProxy takes the client address from forwarding headers.
	TrustProxy bool

	Admin  *handlers.Admin
	Auth   *handlers.Auth
	Public *handlers.Public

	Health map[string]HealthCheck
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler(d.Health))

	// Shareable previews are authorized by their token, not a session.
	r.Get("/blog/preview/{slug}", d.Public.Preview)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions, d.AuthTimeout))
		r.Use(middleware.NewCSRF(d.SecureCookies))

		// Accessible without a session.
		r.Group(func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(d.LoginLimiter.Middleware)
			}
			r.Post("/login", d.Auth.Login)
		})
		r.Post("/logout", d.Auth.Logout)

		r.Route("/api", func(r chi.Router) {
			r.Get("/me", d.Auth.Me)

			// Authenticated API.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Get("/dashboard/stream", d.Admin.DashboardStream)

				r.Route("/posts", func(r chi.Router) {
					r.Get("/", d.Admin.PostsList)
					r.Post("/", d.Admin.PostCreate)
					r.Get("/{id}", d.Admin.PostGet)
					r.Put("/{id}", d.Admin.PostUpdate)
					r.Delete("/{id}", d.Admin.PostDelete)
					r.Post("/{id}/publish", d.Admin.PostPublish)
				})

				r.Post("/editor", d.Admin.Editor)

				r.Route("/inquiries", func(r chi.Router) {
					r.Get("/", d.Admin.InquiriesList)
					r.Patch("/{id}", d.Admin.InquiryUpdate)
					r.Delete("/{id}", d.Admin.InquiryDelete)
				})

				r.Get("/media", d.Admin.MediaList)
			})
		})
	})

	return r
}

// healthHandler runs every check and answers 200 when all pass, 503
// otherwise. The body lists each check's result.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		results := make(map[string]string, len(names))
		for _, name := range names {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				status = "degraded"
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{"status": status, "checks": results})
	}
}

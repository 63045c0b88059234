package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Madjob23/ngo-reports/internal/reports/service"
	"github.com/Madjob23/ngo-reports/internal/reports/store"
	"github.com/Madjob23/ngo-reports/pkg/httpx"
	"github.com/Madjob23/ngo-reports/pkg/jwtx"
	"github.com/Madjob23/ngo-reports/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      jwtx.Verifier
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store store.Store

	Sessions  *service.SessionService
	Users     *service.UserService
	Reports   *service.ReportService
	Summaries *service.SummaryService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	secureCookies bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		secureCookies: secureCookies,
		store:         st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerReports()
	r.registerDashboard()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// session gates a handler behind a valid auth cookie and then rate
// limits per user.
func (r *Router) session(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.SessionMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Sessions:      r.Sessions,
		Users:         r.Users,
		SecureCookies: r.secureCookies,
	}

	// POST /login - strict rate limit by IP + username to slow down
	// credential stuffing against a single account.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// Logout needs no session: clearing an absent cookie is harmless.
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /v1/auth/me",
		r.session(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))

	r.Mux.Handle("PUT /v1/auth/password",
		r.session(http.HandlerFunc(h.HandleChangePassword), httpx.ModerateLimit))
}

func (r *Router) registerReports() {
	h := &ReportsHandler{
		Reports: r.Reports,
		Users:   r.Users,
	}

	r.Mux.Handle("POST /v1/reports",
		r.session(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/reports",
		r.session(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/reports/{id}",
		r.session(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/reports/{id}",
		r.session(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/reports/{id}",
		r.session(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{
		Summaries: r.Summaries,
		Users:     r.Users,
	}

	r.Mux.Handle("GET /v1/dashboard",
		r.session(h, httpx.LenientLimit))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.Users}

	r.Mux.Handle("POST /v1/users",
		r.session(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/users",
		r.session(http.HandlerFunc(h.HandleList), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{id}",
		r.session(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently, keep limits lenient.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

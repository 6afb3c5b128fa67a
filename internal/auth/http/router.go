package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pointdesk/pointdesk/internal/auth/service"
	"github.com/pointdesk/pointdesk/internal/auth/store"
	"github.com/pointdesk/pointdesk/pkg/httpx"
	"github.com/pointdesk/pointdesk/pkg/jwtx"
	"github.com/pointdesk/pointdesk/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// CookieSecure marks the refresh cookie Secure. Off only in local dev,
	// where the dashboard is served over plain http.
	CookieSecure bool

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	loginHandler := &LoginHandler{
		AuthService:  r.AuthService,
		CookieMaxAge: int(r.codec.RefreshTTL().Seconds()),
		CookieSecure: r.CookieSecure,
	}

	// POST /login - strict rate limit by IP (credential guessing surface)
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	refreshHandler := &RefreshHandler{
		AuthService:  r.AuthService,
		CookieMaxAge: int(r.codec.RefreshTTL().Seconds()),
		CookieSecure: r.CookieSecure,
	}

	// POST /refresh - moderate rate limit; every open tab refreshes through here
	r.Mux.Handle("POST /refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	logoutHandler := &LogoutHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
	}

	// POST /logout - moderate rate limit
	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &MeHandler{UserService: r.UserService}

	// Authenticated endpoint - lenient rate limit by user
	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.codec), // verify access JWT (sig/exp/iss)
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/me", secured)

	pw := &PasswordHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
	}

	// PUT /v1/password - moderate rate limit; verifies the current password
	r.Mux.Handle("PUT /v1/password",
		httpx.Chain(pw,
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
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

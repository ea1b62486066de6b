package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/todolist/api/todolist" // Swagger docs
	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/jwtx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	// CookieSecure sets the Secure flag on the session cookie.
	CookieSecure bool

	AccountService  *service.AccountService
	TokenService    *service.TokenService
	BoardService    *service.BoardService
	CategoryService *service.CategoryService
	GoalService     *service.GoalService
	CommentService  *service.CommentService
	TelegramService *service.TelegramService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Logging sees the request first so recovered panics are logged too.
	// ServeMux cleans paths itself.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		middleware.Recoverer,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCore()
	r.registerBoards()
	r.registerCategories()
	r.registerGoals()
	r.registerComments()
	r.registerBot()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Todolist API
//	@version		0.1.0
//	@description	Goal tracking: boards shared between participants, goal categories, goals and comments.
//	@description
//	@description				Browser clients authenticate with the sessionid cookie set by /v1/core/login.
//	@description				API clients exchange credentials at /v1/core/token for an EdDSA signed JWT.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/todolist
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	SessionAuth
//	@in							cookie
//	@name						sessionid
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn accepts either a bearer token or the session cookie.
func (r *Router) authn() httpx.Middleware {
	cfg := httpx.AuthnConfig{
		Verifier:   r.verifier,
		CookieName: todosdk.SessionCookie,
	}
	if r.AccountService != nil {
		cfg.Sessions = r.AccountService
	}
	return httpx.AuthnMiddleware(cfg)
}

func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		r.authn(),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerCore() {
	h := &AccountHandler{
		AccountService: r.AccountService,
		TokenService:   r.TokenService,
		CookieSecure:   r.CookieSecure,
	}

	// Credential endpoints - strict limit by IP
	r.Mux.Handle("POST /v1/core/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/core/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)
	r.Mux.Handle("POST /v1/core/token",
		httpx.Chain(http.HandlerFunc(h.HandleToken),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("GET /v1/core/profile", r.secured(h.HandleGetProfile, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/core/profile", r.secured(h.HandleUpdateProfile, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/core/profile", r.secured(h.HandleUpdateProfile, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/core/profile", r.secured(h.HandleLogout, httpx.ModerateLimit))

	// Password changes are brute-forceable, keep them strict
	r.Mux.Handle("PUT /v1/core/update_password", r.secured(h.HandleUpdatePassword, httpx.StrictLimit))
}

func (r *Router) registerBoards() {
	h := &BoardHandler{BoardService: r.BoardService}

	r.Mux.Handle("POST /v1/goals/board/create", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/goals/board/list", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/goals/board/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/goals/board/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/goals/board/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/goals/board/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerCategories() {
	h := &CategoryHandler{CategoryService: r.CategoryService}

	r.Mux.Handle("POST /v1/goals/goal_category/create", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/goals/goal_category/list", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/goals/goal_category/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/goals/goal_category/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/goals/goal_category/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/goals/goal_category/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerGoals() {
	h := &GoalHandler{GoalService: r.GoalService}

	r.Mux.Handle("POST /v1/goals/goal/create", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/goals/goal/list", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/goals/goal/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/goals/goal/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/goals/goal/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/goals/goal/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerComments() {
	h := &CommentHandler{CommentService: r.CommentService}

	r.Mux.Handle("POST /v1/goals/goal_comment/create", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/goals/goal_comment/list", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/goals/goal_comment/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/goals/goal_comment/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/goals/goal_comment/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/goals/goal_comment/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerBot() {
	h := &BotHandler{TelegramService: r.TelegramService}

	// Codes are 256-bit, but guessing attempts still get the strict limit
	r.Mux.Handle("PATCH /v1/bot/verify", r.secured(h.HandleVerify, httpx.StrictLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

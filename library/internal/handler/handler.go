package handler

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/library-management/library/swagger"
	"github.com/Astemirdum/library-management/pkg/auth"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/validate"
)

type Services struct {
	Transactions TransactionService
	Books        BookService
	Users        UserService
	Auth         AuthService
}

type Handler struct {
	transactionSvc TransactionService
	bookSvc        BookService
	userSvc        UserService
	authSvc        AuthService
	tokens         md.TokenParser
	revoked        md.RevocationChecker
	registry       *prometheus.Registry
	log            *zap.Logger
}

// New builds the handler. revoked may be nil, logout is not served then.
func New(svc Services, tokens md.TokenParser, revoked md.RevocationChecker, log *zap.Logger) *Handler {
	return &Handler{
		transactionSvc: svc.Transactions,
		bookSvc:        svc.Books,
		userSvc:        svc.Users,
		authSvc:        svc.Auth,
		tokens:         tokens,
		revoked:        revoked,
		log:            log,
	}
}

// WithRegistry serves HTTP metrics from reg instead of the default registry.
func (h *Handler) WithRegistry(reg *prometheus.Registry) *Handler {
	h.registry = reg
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	metricsCfg := echoprometheus.MiddlewareConfig{Namespace: "library"}
	metricsHandler := echoprometheus.NewHandler()
	if h.registry != nil {
		metricsCfg.Registerer = h.registry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: h.registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsCfg))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/metrics", metricsHandler)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	h.routes(api)
	return e
}

func (h *Handler) routes(api *echo.Group) {
	authenticated := md.JwtAuthentication(h.tokens, h.revoked)
	librarian := md.RequireRole(auth.RoleLibrarian)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	if h.revoked != nil {
		api.POST("/auth/logout", h.Logout, authenticated)
	}

	api.GET("/books", h.ListBooks)
	api.GET("/books/available", h.ListAvailableBooks)
	api.GET("/books/isbn/:isbn", h.GetBookByISBN)
	api.GET("/books/:id", h.GetBook)
	api.POST("/books", h.CreateBook, authenticated, librarian)
	api.PUT("/books/:id", h.UpdateBook, authenticated, librarian)
	api.DELETE("/books/:id", h.DeleteBook, authenticated, librarian)

	api.GET("/users", h.ListUsers, authenticated, librarian)
	api.POST("/users", h.CreateUser, authenticated, librarian)
	api.GET("/users/search/:username", h.GetUserByUsername, authenticated, librarian)
	api.GET("/users/:id", h.GetUser, authenticated)
	api.PUT("/users/:id", h.UpdateUser, authenticated)
	api.DELETE("/users/:id", h.DeleteUser, authenticated, librarian)

	api.POST("/transactions/borrow", h.Borrow, authenticated)
	api.POST("/transactions/return", h.Return, authenticated)
	api.GET("/transactions/user/:id", h.UserTransactions, authenticated)
	api.GET("/transactions", h.AllTransactions, authenticated, librarian)
	api.GET("/transactions/overdue", h.OverdueTransactions, authenticated, librarian)
	api.GET("/transactions/active", h.ActiveTransactions, authenticated, librarian)
	api.GET("/transactions/book/:id", h.BookTransactions, authenticated, librarian)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/contactkeeper/internal/api/http/handler"
	"github.com/dtroode/contactkeeper/internal/api/http/middleware"
	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/model"
	"github.com/dtroode/contactkeeper/internal/service"
)

// Router wires the HTTP handlers and middleware of the contactkeeper API.
type Router struct {
	authService    *service.Auth
	contactService *service.Contact
	tokenService   *service.TokenService
	db             handler.Pinger
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - authService: registration, login and user lookup
//   - contactService: contact management
//   - tokenService: token rotation and access token validation
//   - db: pinged by the health endpoint
//   - contextManager: carries the authenticated user between middleware and handlers
//   - logger: the logger for request logging
func New(
	authService *service.Auth,
	contactService *service.Contact,
	tokenService *service.TokenService,
	db handler.Pinger,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		contactService: contactService,
		tokenService:   tokenService,
		db:             db,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the gin engine with every route and middleware.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(logging.HandleHTTP, gin.CustomRecovery(logging.Recover))

	engine.GET("/healthz", handler.NewHealth(r.db, r.logger).Check)

	r.registerAuthRoutes(engine.Group("/api"), authenticate)
	r.registerContactRoutes(engine.Group("/api/contacts", authenticate.Handle))

	return engine
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	authHandler := handler.NewAuth(r.authService, r.tokenService, r.contextManager, r.logger)

	api.POST("/users", authHandler.Register)
	api.POST("/auth", authHandler.Login)
	api.GET("/auth", authenticate.Handle, authHandler.Me)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
}

func (r *Router) registerContactRoutes(contacts *gin.RouterGroup) {
	contactHandler := handler.NewContact(r.contactService, r.contextManager, r.logger)

	contacts.GET("", contactHandler.List)
	contacts.POST("", contactHandler.Create)
	contacts.PUT("/:id", contactHandler.Update)
	contacts.DELETE("/:id", contactHandler.Delete)
}

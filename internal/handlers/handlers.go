package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"habita/auth/internal/config"
	"habita/auth/internal/middleware"
	"habita/auth/internal/models"
	"habita/auth/internal/policy"
	"habita/auth/internal/repository"
	"habita/auth/internal/security"
	"habita/auth/internal/service"
	"habita/auth/internal/session"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	userService *service.UserService
	sessions    session.Store
	codec       *security.TokenCodec
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig, sessions session.Store) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	codec := security.NewTokenCodec(cfg.Security.JWTSecret, cfg.Security.TokenTTL)

	auth := service.NewAuthService(userRepo, sessions, codec, log)
	users := service.NewUserService(userRepo, sessions, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		userService: users,
		sessions:    sessions,
		codec:       codec,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Routes(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.POST("/register", h.Register)
	router.POST("/login", h.Login)

	protected := router.Group("")
	protected.Use(middleware.Session(h.cfg.Security.CookieName, h.sessions, h.codec))

	protected.POST("/logout", h.Logout)
	protected.GET("/session_status", h.SessionStatus)

	protected.GET("/profile", h.Profile)
	protected.GET("/profile/:id", h.Profile)

	protected.POST("/register_member", h.RegisterMember)
	protected.POST("/register_member/:id_inmobiliaria", h.RegisterMember)

	protected.DELETE("/delete", h.DeleteUser)
	protected.DELETE("/delete/:id", h.DeleteUser)

	protected.PUT("/update", h.UpdateUser)
	protected.PUT("/update/:id", h.UpdateUser)

	protected.GET("/users", h.ListUsers)
	protected.GET("/users/inmobiliaria", h.ListUsersByInmobiliaria)
	protected.GET("/users/inmobiliaria/:id_inmobiliaria", h.ListUsersByInmobiliaria)
}

// currentCaller rebuilds the policy caller from the claims the session
// middleware stored on the context.
func currentCaller(c *gin.Context) (policy.Caller, bool) {
	claimsVal, exists := c.Get(middleware.ContextClaims)
	if !exists {
		return policy.Caller{}, false
	}
	claims, ok := claimsVal.(security.Claims)
	if !ok {
		return policy.Caller{}, false
	}

	return policy.Caller{
		ID:           claims.UserID,
		Username:     claims.Username,
		Role:         models.Role(claims.Role),
		Inmobiliaria: claims.Inmobiliaria(),
	}, true
}

type userResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	InmobiliariaID *string `json:"id_inmobiliaria"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           string(user.Role),
		InmobiliariaID: user.InmobiliariaID,
	}
}

func toUserResponses(users []models.User) []userResponse {
	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}
	return resp
}

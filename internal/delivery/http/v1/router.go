package v1

import (
	"net/http"

	"farm-contact-api/config"
	"farm-contact-api/internal/delivery/http/middleware"
	"farm-contact-api/internal/delivery/http/response"
	"farm-contact-api/internal/domain"
	"farm-contact-api/internal/usecase"
	"farm-contact-api/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       usecase.HealthUsecase
	OriginPolicy   middleware.OriginPolicy
	SecurityLogger *security.SecurityLogger
	Config         *config.Config
}

// NewOriginPolicy selects the CORS strategy configured for this deployment.
func NewOriginPolicy(cfg *config.Config) middleware.OriginPolicy {
	if cfg.CORSMode == config.CORSModeOpen {
		return middleware.OpenPolicy{}
	}
	return middleware.NewAllowListPolicy(cfg.AllowedOrigins)
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		health := deps.HealthUC.Check(c.Request.Context())
		response.JSON(c, http.StatusOK, response.HealthResponse{
			Success:    true,
			Status:     health.Status,
			Provider:   health.Provider,
			Configured: health.Configured,
		})
	})

	// Public contact form: CORS policy applies to every response of this group
	policy := deps.OriginPolicy
	if policy == nil {
		policy = NewOriginPolicy(deps.Config)
	}
	contact := api.Group("")
	contact.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	contact.Use(middleware.CORSMiddleware(policy, deps.SecurityLogger))
	contact.Use(middleware.BodySizeLimit(deps.Config.MaxBodyBytes))
	NewContactHandler(contact, deps.ContactUC)

	// Swagger
	if !deps.Config.IsProduction() {
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

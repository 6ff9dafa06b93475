package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carelink/carelink-api/internal/config"
	"github.com/carelink/carelink-api/pkg/auth"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type RouterDeps struct {
	Config    *config.Config
	Log       *zap.Logger
	Metrics   *metrics.Collector
	Verifier  *auth.TokenVerifier
	DB        *gorm.DB
	Patients  *PatientHandler
	Reminders *ReminderHandler
	Vitals    *VitalHandler
}

// NewRouter assembles the gin engine: CORS and observability middleware on
// everything, bearer-token verification on the three service groups.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(corsMiddleware(d.Config.CORS))
	if d.Log != nil {
		r.Use(RequestLogger(d.Log))
	}
	if d.Metrics != nil {
		r.Use(Metrics(d.Metrics))
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Endpoint not found")
	})
	r.NoMethod(func(c *gin.Context) {
		respondError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.GET("/healthz", healthHandler(d.DB))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
	}

	authed := r.Group("")
	if d.Verifier != nil {
		authed.Use(AuthRequired(d.Verifier))
	}

	d.Reminders.RegisterRoutes(authed.Group("/medication-reminders"))
	d.Patients.RegisterRoutes(authed.Group("/patient-management"))
	d.Vitals.RegisterRoutes(authed.Group("/vital-alerts"))

	return r
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods: cfg.AllowedMethods,
		AllowHeaders: cfg.AllowedHeaders,
		MaxAge:       cfg.MaxAge,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(corsCfg)
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

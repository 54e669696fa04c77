package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/k-rank/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/rankings/:domain", handler.GetRankings)
	r.GET("/rankings/:domain/dates", handler.GetRankingDates)
	r.GET("/rankings/:domain/dates/:date", handler.GetRankingsByDate)
	r.GET("/restaurants/:rank", handler.GetRestaurant)
	r.GET("/summary", handler.GetSummary)
	r.GET("/feeds/:domain", handler.GetFeed)
	r.GET("/health", handler.GetHealth)

	// API endpoints (conditionally enabled with authentication)
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.GET("/domains", handler.APIListDomains)
			api.POST("/cache/refresh", handler.APIRefreshCache)
			api.DELETE("/cache", handler.APIFlushCache)
		}
		slog.Info("API endpoints enabled with authentication")
	} else {
		slog.Info("API endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"rankings":   "/rankings/<domain>?category=<id>&q=<search>",
			"dates":      "/rankings/<domain>/dates",
			"by_date":    "/rankings/<domain>/dates/<YYYY-MM-DD>",
			"restaurant": "/restaurants/<rank>",
			"summary":    "/summary",
			"feed":       "/feeds/<domain>",
			"health":     "/health",
		}

		if apiAccessKey != "" {
			endpoints["domains"] = "/api/domains (requires X-API-Key header)"
			endpoints["refresh"] = "/api/cache/refresh (POST, requires X-API-Key header)"
			endpoints["flush"] = "/api/cache (DELETE, requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "K-Rank",
			"version":     cfg.GetVersion(),
			"description": "Daily Korean trend leaderboards",
			"endpoints":   endpoints,
			"api_status": map[string]any{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

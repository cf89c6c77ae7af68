// README: HTTP route registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelplanner/internal/http/middleware"
)

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.GET("/api/destinations", s.itineraries.Destinations)
	r.POST("/api/itineraries/validate", s.itineraries.Validate)

	r.POST("/api/auth/register", s.accounts.Register)
	r.POST("/api/auth/login", s.accounts.Login)

	authed := r.Group("/api", middleware.Auth(s.verifier))
	authed.GET("/auth/me", s.accounts.Me)

	authed.POST("/itineraries/generate", s.limiter.Limit(), s.itineraries.Generate)
	authed.GET("/itineraries", s.itineraries.List)
	authed.POST("/itineraries", s.itineraries.Save)
	authed.GET("/itineraries/:id", s.itineraries.Get)
	authed.PUT("/itineraries/:id", s.itineraries.Update)
	authed.DELETE("/itineraries/:id", s.itineraries.Delete)

	return r
}

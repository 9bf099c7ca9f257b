package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hengly4433/hotel-system/internal/actorcontext"
)

const HeaderActorID = "X-Actor-Id"

// ActorContext copies the acting user from the request header into the
// request context so services can stamp created_by and audit entries.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := strings.TrimSpace(c.GetHeader(HeaderActorID)); actor != "" {
			c.Request = c.Request.WithContext(actorcontext.WithActorID(c.Request.Context(), actor))
		}
		c.Next()
	}
}

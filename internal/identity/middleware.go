package identity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Header carries the acting user's id on every authenticated request.
const Header = "X-Sharer-User-Id"

// Required is a Gin middleware that extracts the acting user id from the
// X-Sharer-User-Id header. The service sits behind a gateway that
// authenticates users, so the header value is trusted as-is.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(Header)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + Header + " header",
			})
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + Header + " header",
			})
			return
		}

		c.Set(contextKey, userID)
		c.Next()
	}
}

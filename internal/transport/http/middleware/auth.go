package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/pkg/auth"
	"github.com/iamasit07/puissance4/pkg/httputil"
)

const SeatKey = "seat"

// SeatAuth checks the seat token against the :id route parameter and stores
// the seat under SeatKey.
func SeatAuth(signer *auth.SeatSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := signer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if claims.GameID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is for another game"})
			return
		}

		c.Set(SeatKey, domain.PlayerID(claims.Seat))
		c.Next()
	}
}

func Seat(c *gin.Context) domain.PlayerID {
	seat, _ := c.Get(SeatKey)
	p, _ := seat.(domain.PlayerID)
	return p
}

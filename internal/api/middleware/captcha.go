package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IamAKX/propso-v2-sub000/internal/captcha"
)

// RequireCaptcha gates unauthenticated write endpoints behind a Turnstile
// challenge. The client submits its challenge token in X-Captcha-Token.
// Authenticated requests skip the check.
func RequireCaptcha(verifier captcha.IVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, authenticated := c.Get(ContextKeyUserID); authenticated {
			c.Next()
			return
		}

		token := c.GetHeader("X-Captcha-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Captcha token required"})
			return
		}

		ok, err := verifier.Verify(c.Request.Context(), token, c.ClientIP())
		if err != nil {
			log.Printf("Captcha verification error: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Captcha verification unavailable"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Captcha verification failed"})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"https://localhost:3000",
	"http://127.0.0.1:3000",
}

// CORS middleware for handling cross-origin requests
func CORS(allowed []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowed)+len(defaultOrigins))
	for _, o := range append(defaultOrigins, allowed...) {
		origins[strings.TrimSpace(o)] = true
	}
	wildcard := origins["*"]

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (wildcard || origins[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

package middleware

import "github.com/gin-gonic/gin"

// staffIDKey is the key used to store the acting staff member's ID in the Gin
// context. Authentication itself happens upstream; the gateway forwards the
// staff identity in a trusted header.
const staffIDKey = contextKey("staffID")

const staffIDHeader = "X-Staff-ID"

// StaffIdentityMiddleware copies the forwarded staff identity into the Gin
// context for handlers to attribute writes to.
func StaffIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if staffID := c.GetHeader(staffIDHeader); staffID != "" {
			c.Set(string(staffIDKey), staffID)
		}
		c.Next()
	}
}

// GetStaffIDFromContext retrieves the acting staff ID from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetStaffIDFromContext(c *gin.Context) (string, bool) {
	staffIDVal, exists := c.Get(string(staffIDKey))
	if !exists {
		return "", false
	}
	staffID, ok := staffIDVal.(string)
	if !ok {
		return "", false
	}
	return staffID, true
}

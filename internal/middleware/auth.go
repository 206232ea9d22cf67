package middleware

import (
	"net/http"
	"quill/internal/db"
	"quill/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser retrieves the logged-in user from the session cookie and sets it
// on the request context. Anonymous requests pass through with no user set.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if err := db.DB.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in; otherwise it flashes a notice
// and redirects to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			session := sessions.Default(c)
			session.AddFlash("You need to login or register to comment")
			session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired gates post management routes. A request without an admin
// identity is rejected with 403 before the handler runs; no business logic
// lives here.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CheckUserKey)
		if !exists || !u.(*models.User).IsAdmin() {
			// Rendered here rather than through handlers.Render to avoid
			// an import cycle, so the shared keys are set inline. A
			// logged-in non-admin still sees their own navigation.
			data := gin.H{
				"Title":       "Forbidden",
				"Error":       "You are not allowed to manage posts",
				"CurrentPath": c.Request.URL.Path,
			}
			if exists {
				data["CurrentUser"] = u
			}
			c.HTML(http.StatusForbidden, "error.html", data)
			c.Abort()
			return
		}
		c.Next()
	}
}

package handlers

import (
	"quill/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user' and pending
// flash notices before handing off to the template engine.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	// obj may be a cached map shared by concurrent requests, so the
	// per-request keys go into a fresh copy, never into obj itself.
	data := make(gin.H, len(obj)+3)
	for k, v := range obj {
		data[k] = v
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		data["CurrentUser"] = user
	}

	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		session.Save()
		data["Flashes"] = flashes
	}

	data["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, data)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Title": "Error", "Error": message})
}

// Flash queues a one-shot notice shown on the next rendered page.
func Flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	session.Save()
}

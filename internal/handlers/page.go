package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static informational pages. No data access.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) About(c *gin.Context) {
	Render(c, http.StatusOK, "page/about.html", gin.H{"Title": "About Me"})
}

func (h *PageHandler) Contact(c *gin.Context) {
	Render(c, http.StatusOK, "page/contact.html", gin.H{"Title": "Contact Me"})
}

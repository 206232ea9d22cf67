package router

import (
	"quill/internal/handlers"
	"quill/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	pageHandler := handlers.NewPageHandler()

	// Public routes
	r.GET("/", postHandler.Index)
	r.GET("/post/:id", postHandler.Show)
	r.GET("/about", pageHandler.About)
	r.GET("/contact", pageHandler.Contact)

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Commenting requires a session
	comment := r.Group("/")
	comment.Use(middleware.AuthRequired())
	{
		comment.POST("/post/:id", postHandler.CreateComment)
	}

	// Post management is admin only
	admin := r.Group("/")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/new-post", postHandler.ShowCreate)
		admin.POST("/new-post", postHandler.Create)
		admin.GET("/edit-post/:id", postHandler.ShowEdit)
		admin.POST("/edit-post/:id", postHandler.Update)
		admin.GET("/delete/:id", postHandler.Delete)
	}
}

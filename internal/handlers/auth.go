package handlers

import (
	"errors"
	"net/http"
	"quill/internal/db"
	"quill/internal/models"
	"quill/internal/utils"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{
		"Title":       "Register",
		"FieldErrors": map[string]string{},
		"Email":       "",
		"Name":        "",
	})
}

// validateRegisterForm returns a map of field -> message for anything wrong
// with the submitted registration form, empty when the form is valid.
func validateRegisterForm(email, password, name string) map[string]string {
	errs := make(map[string]string)
	if email == "" || !strings.Contains(email, "@") {
		errs["Email"] = "A valid email address is required"
	}
	if password == "" {
		errs["Password"] = "Password is required"
	}
	if name == "" {
		errs["Name"] = "Name is required"
	}
	return errs
}

func (h *AuthHandler) Register(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	name := strings.TrimSpace(c.PostForm("name"))

	if errs := validateRegisterForm(email, password, name); len(errs) > 0 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Title":       "Register",
			"FieldErrors": errs,
			"Email":       email,
			"Name":        name,
		})
		return
	}

	// Check-then-insert: not atomic with the insert, so two concurrent
	// registrations racing on the same email can both pass this check.
	// The unique index on email backstops that case.
	var existing models.User
	err := db.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		Flash(c, "You have registered, please login")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		RenderError(c, http.StatusInternalServerError, "Registration failed, please try again")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Registration failed, please try again")
		return
	}

	user := models.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     models.RoleUser,
	}

	// The first account to register owns the blog. Authorization reads the
	// role column, not the row id, but by construction that account is id 1.
	var count int64
	db.DB.Model(&models.User{}).Count(&count)
	if count == 0 {
		user.Role = models.RoleAdmin
	}

	if err := db.DB.Create(&user).Error; err != nil {
		// Lost the registration race on the unique email index.
		Flash(c, "You have registered, please login")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Log In"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Flash(c, "The email does not exist, please try again")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		Flash(c, "Password incorrect, please try again")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

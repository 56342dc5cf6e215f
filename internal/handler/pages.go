package handler

import (
	"net/http"

	"secret-share/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Home handles GET /.
func Home(c *gin.Context) {
	_, loggedIn := middleware.UserFrom(c)
	c.HTML(http.StatusOK, "home.html", gin.H{
		"loggedIn": loggedIn,
	})
}

// LoginPage handles GET /login.
func LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// RegisterPage handles GET /register.
func RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

// SubmitPage handles GET /submit（挂了 RequireLogin）.
func SubmitPage(c *gin.Context) {
	c.HTML(http.StatusOK, "submit.html", nil)
}

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

const msgBadCredentials = "Please enter a correct username and password."

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", gin.H{"Title": "Sign up", "Errors": forms.Errors{}})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	confirm := c.PostForm("password_confirm")

	errs := forms.Errors{}
	if username == "" {
		errs.Add("username", forms.MsgRequired)
	}
	if password == "" {
		errs.Add("password", forms.MsgRequired)
	}
	if password != confirm {
		errs.Add("password_confirm", "The two password fields didn't match.")
	}

	if !errs.Any() {
		user, err := services.CreateUser(username, password)
		switch {
		case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrInvalidUsername):
			errs.Add("username", err.Error())
		case errors.Is(err, services.ErrPasswordTooShort):
			errs.Add("password", err.Error())
		case err != nil:
			RenderError(c, err)
			return
		default:
			if err := middleware.Login(c, user); err != nil {
				RenderError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	Render(c, http.StatusOK, "auth/signup.html", gin.H{
		"Title":    "Sign up",
		"Errors":   errs,
		"Username": username,
	})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title":  "Log in",
		"Next":   c.Query("next"),
		"Errors": forms.Errors{},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.PostForm("next")

	user, ok := services.Authenticate(username, password)
	if !ok {
		errs := forms.Errors{}
		errs.Add(forms.NonFieldErrors, msgBadCredentials)
		Render(c, http.StatusOK, "auth/login.html", gin.H{
			"Title":    "Log in",
			"Next":     next,
			"Username": username,
			"Errors":   errs,
		})
		return
	}

	if err := middleware.Login(c, user); err != nil {
		RenderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.Logout(c)
	c.Redirect(http.StatusFound, "/")
}

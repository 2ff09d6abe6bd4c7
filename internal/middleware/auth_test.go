package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.Open(config.DB{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	prev := db.DB
	db.DB = conn
	t.Cleanup(func() { db.DB = prev })

	user := &models.User{Username: "leo", Password: "x"}
	require.NoError(t, conn.Create(user).Error)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.Use(LoadUser())
	r.GET("/login-as/:id", func(c *gin.Context) {
		var u models.User
		require.NoError(t, db.DB.First(&u, c.Param("id")).Error)
		require.NoError(t, Login(c, &u))
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/private/", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})
	return r, user
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	r, _ := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private/?a=1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fprivate%2F%3Fa%3D1", w.Header().Get("Location"))
}

func TestLoadUserFromSession(t *testing.T) {
	r, user := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, user.Username, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", w.Body.String())
}

func TestLoadUserDropsDeletedUser(t *testing.T) {
	r, user := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/1", nil))
	cookies := w.Result().Cookies()

	require.NoError(t, db.DB.Delete(user).Error)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "anonymous", w.Body.String())
}

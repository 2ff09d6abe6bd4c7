package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPassword = "password123"

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

type testApp struct {
	t      *testing.T
	engine *gin.Engine
	cfg    *config.Config
	cache  *utils.GlobalCache
}

func newApp(t *testing.T, storage services.Storage) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.Open(config.DB{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	prev := db.DB
	db.DB = conn
	t.Cleanup(func() { db.DB = prev })

	cfg := &config.Config{
		SiteURL:       "http://testserver",
		SessionSecret: "test-secret",
		PerPageCount:  10,
		IndexCacheTTL: 20 * time.Second,
		CacheSize:     100,
		Media: config.Media{
			Backend:       "local",
			Root:          t.TempDir(),
			URL:           "/media/",
			MaxUploadSize: 1 << 20,
		},
	}
	if storage == nil {
		storage = services.NewLocalStorage(cfg.Media.Root, cfg.Media.URL)
	}

	cache := utils.NewCache(cfg.CacheSize)
	engine, err := router.New(cfg, storage, cache)
	require.NoError(t, err)

	return &testApp{t: t, engine: engine, cfg: cfg, cache: cache}
}

// client 保存会话 cookie，模拟浏览器
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) anonymous() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

// loginAs 注册用户（如不存在）并登录
func (a *testApp) loginAs(username string) (*client, *models.User) {
	a.t.Helper()
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		created, err := services.CreateUser(username, testPassword)
		require.NoError(a.t, err)
		user = *created
	}

	c := a.anonymous()
	w := c.postForm("/auth/login/", url.Values{"username": {username}, "password": {testPassword}})
	require.Equal(a.t, http.StatusFound, w.Code)
	return c, &user
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.app.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postMultipart(path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	c.app.t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(c.app.t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(c.app.t, err)
		_, err = part.Write(content)
		require.NoError(c.app.t, err)
	}
	require.NoError(c.app.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "unused"}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createGroup(t *testing.T, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug, Description: "about " + title}
	require.NoError(t, db.DB.Create(group).Error)
	return group
}

func createPost(t *testing.T, author *models.User, text string, group *models.Group) *models.Post {
	t.Helper()
	post := &models.Post{Text: text}
	if author != nil {
		post.AuthorID = &author.ID
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.DB.Create(post).Error)
	return post
}

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Count(&n).Error)
	return n
}

// postCards 统计页面中帖子卡片的数量
func postCards(body string) int {
	return strings.Count(body, `class="post"`)
}

// assertFullPage 模板中途出错时状态码仍是 200，只能从页面是否完整判断
func assertFullPage(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasSuffix(strings.TrimSpace(w.Body.String()), "</html>"),
		"page was cut short:\n%s", w.Body.String())
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Save(ctx context.Context, fileName string, file io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(fileName, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, name string) error {
	return m.Called(name).Error(0)
}

func (m *mockStorage) URL(name string) string {
	return "https://cdn.example.com/" + name
}

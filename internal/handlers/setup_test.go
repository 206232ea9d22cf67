package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"quill/internal/db"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/router"
	"quill/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer builds the full application against a fresh in-memory
// sqlite database and returns it behind an httptest server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	// cache=shared so every pooled connection sees the same memory DB;
	// a unique name per test keeps tests isolated from each other.
	dsn := fmt.Sprintf("file:quilltest%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.DB = gdb

	// Page cache is a process-wide singleton; drop anything a previous
	// test left behind.
	utils.GetCache().Purge()

	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("quill_session", store))
	r.HTMLRender = router.LoadTemplates("../../web/templates")
	r.Use(middleware.LoadUser())
	router.RegisterRoutes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

// newClient returns an HTTP client with a cookie jar so the session cookie
// survives across requests. Redirects are not followed, letting tests
// assert on Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return resp
}

func get(t *testing.T, client *http.Client, target string) *http.Response {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s failed: %v", target, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

func register(t *testing.T, client *http.Client, base, name, email, password string) *http.Response {
	t.Helper()
	return postForm(t, client, base+"/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
}

func login(t *testing.T, client *http.Client, base, email, password string) *http.Response {
	t.Helper()
	return postForm(t, client, base+"/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func createPost(t *testing.T, client *http.Client, base, title string) *http.Response {
	t.Helper()
	return postForm(t, client, base+"/new-post", url.Values{
		"title":    {title},
		"subtitle": {"S"},
		"body":     {"B"},
		"img_url":  {"http://x/y.png"},
	})
}

func count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.DB.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	return n
}

func firstPost(t *testing.T) models.Post {
	t.Helper()
	var post models.Post
	if err := db.DB.Preload("Author").First(&post).Error; err != nil {
		t.Fatalf("Failed to load post: %v", err)
	}
	return post
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/invtrack/invtrack/internal/auth"
	"github.com/invtrack/invtrack/internal/categories"
	"github.com/invtrack/invtrack/internal/config"
	"github.com/invtrack/invtrack/internal/database"
	"github.com/invtrack/invtrack/internal/items"
	"github.com/invtrack/invtrack/internal/tokens"
	"github.com/invtrack/invtrack/internal/users"
	"github.com/invtrack/invtrack/pkg/middleware"
)

// fakeOAuth maps authorization codes to canned GitHub profiles.
type fakeOAuth struct {
	profiles map[string]auth.Profile
}

func (f *fakeOAuth) Exchange(ctx context.Context, code string) (string, error) {
	if _, ok := f.profiles[code]; !ok {
		return "", nil
	}
	return "tok:" + code, nil
}

func (f *fakeOAuth) FetchCurrentUser(ctx context.Context, accessToken string) (*auth.Profile, error) {
	code := strings.TrimPrefix(accessToken, "tok:")
	p, ok := f.profiles[code]
	if !ok {
		return nil, fmt.Errorf("unknown access token")
	}
	return &p, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	issuer := tokens.NewIssuer(config.JWTConfig{
		Key:      "handlers-test-key-32-bytes-long-x",
		Issuer:   "invtrack-test",
		Audience: "invtrack-test",
		TokenTTL: time.Hour,
	})
	oauth := &fakeOAuth{profiles: map[string]auth.Profile{
		"code-alice": {Login: "alice", Name: "Alice"},
		"code-bob":   {Login: "bob", Name: "Bob"},
	}}

	usersSvc := users.NewService(users.NewGormRepository(db))
	categoriesSvc := categories.NewService(categories.NewGormRepository(db))
	itemsSvc := items.NewService(items.NewGormRepository(db), categoriesSvc)
	authSvc := auth.NewService(oauth, usersSvc, issuer)

	r := gin.New()
	authMW := middleware.Auth(issuer)
	root := r.Group("/")
	NewAuthHandler(authSvc).Register(root)
	NewCategoriesHandler(categoriesSvc).Register(root, authMW)
	NewItemsHandler(itemsSvc).Register(root, authMW)
	return r, db
}

func do(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, code string) string {
	t.Helper()
	w := do(t, r, http.MethodGet, "/auth/github?code="+code, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
		User  struct {
			ID   uuid.UUID `json:"id"`
			Name string    `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestLoginWithGitHub(t *testing.T) {
	r, _ := newTestRouter(t)

	// missing code
	w := do(t, r, http.MethodGet, "/auth/github", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// rejected code
	w = do(t, r, http.MethodGet, "/auth/github?code=nope", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// good code returns a usable session token
	token := login(t, r, "code-alice")
	w = do(t, r, http.MethodGet, "/categories", token, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/categories", "/items"} {
		w := do(t, r, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := do(t, r, http.MethodGet, "/categories", "garbage-token", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategoryCRUD(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "code-alice")

	// create
	w := do(t, r, http.MethodPost, "/categories", token, `{"name":"Garage"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created categories.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "Garage", created.Name)

	// get
	w = do(t, r, http.MethodGet, "/categories/"+created.ID.String(), token, "")
	require.Equal(t, http.StatusOK, w.Code)

	// create child + list under parent
	w = do(t, r, http.MethodPost, "/categories", token, fmt.Sprintf(`{"name":"Shelf","parentId":%q}`, created.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, r, http.MethodGet, "/categories?parentId="+created.ID.String(), token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed categories.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Categories, 1)
	require.Equal(t, "Shelf", listed.Categories[0].Name)

	// update
	w = do(t, r, http.MethodPut, "/categories/"+created.ID.String(), token, `{"name":"Workshop"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/categories/"+created.ID.String(), token, "")
	var fetched categories.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Equal(t, "Workshop", fetched.Name)

	// delete
	w = do(t, r, http.MethodDelete, "/categories/"+created.ID.String(), token, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, "/categories/"+created.ID.String(), token, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "code-alice")

	// binding rejects a missing name
	w := do(t, r, http.MethodPost, "/categories", token, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// malformed ids are rejected before hitting the service
	w = do(t, r, http.MethodGet, "/categories/not-a-uuid", token, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/categories?parentId=not-a-uuid", token, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemCRUD(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "code-alice")

	w := do(t, r, http.MethodPost, "/categories", token, `{"name":"Tools"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat categories.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	// create
	w = do(t, r, http.MethodPost, "/items", token, fmt.Sprintf(`{"name":"Hammer","count":2,"categoryId":%q}`, cat.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created items.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, 2, created.Count)

	// list with and without filter; total stays the overall count
	w = do(t, r, http.MethodGet, "/items?categoryId="+cat.ID.String(), token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed items.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Items, 1)
	require.EqualValues(t, 1, listed.TotalCount)

	// the category listing reports the same item total
	w = do(t, r, http.MethodGet, "/categories", token, "")
	var catList categories.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catList))
	require.EqualValues(t, 1, catList.TotalCount)

	// update
	w = do(t, r, http.MethodPut, "/items/"+created.ID.String(), token, fmt.Sprintf(`{"name":"Mallet","count":5,"categoryId":%q}`, cat.ID))
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/items/"+created.ID.String(), token, "")
	var fetched items.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Equal(t, "Mallet", fetched.Name)
	require.Equal(t, 5, fetched.Count)

	// delete
	w = do(t, r, http.MethodDelete, "/items/"+created.ID.String(), token, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, "/items/"+created.ID.String(), token, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrossUserIsolation(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := login(t, r, "code-alice")
	bob := login(t, r, "code-bob")

	w := do(t, r, http.MethodPost, "/categories", alice, `{"name":"Private"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat categories.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	w = do(t, r, http.MethodGet, "/categories/"+cat.ID.String(), bob, "")
	require.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodPut, "/categories/"+cat.ID.String(), bob, `{"name":"Hijacked"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodDelete, "/categories/"+cat.ID.String(), bob, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	// bob cannot place items in alice's category either
	w = do(t, r, http.MethodPost, "/items", bob, fmt.Sprintf(`{"name":"Planted","count":1,"categoryId":%q}`, cat.ID))
	require.Equal(t, http.StatusForbidden, w.Code)

	// bob's own listings stay empty
	w = do(t, r, http.MethodGet, "/categories", bob, "")
	var listed categories.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Empty(t, listed.Categories)
}

func TestDeleteCategoryRemovesItems(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "code-alice")

	w := do(t, r, http.MethodPost, "/categories", token, `{"name":"Doomed"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat categories.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	w = do(t, r, http.MethodPost, "/items", token, fmt.Sprintf(`{"name":"Inside","count":1,"categoryId":%q}`, cat.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var it items.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &it))

	w = do(t, r, http.MethodDelete, "/categories/"+cat.ID.String(), token, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/items/"+it.ID.String(), token, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

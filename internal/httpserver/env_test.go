package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/repo"
	"github.com/stockroom/stockroom/internal/service"
	"github.com/stockroom/stockroom/pkg/hash"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	DB   *gorm.DB
	Repo *repo.GormRepo

	Auth      *AuthHTTP
	Inventory *InventoryHTTP
	Admin     *AdminHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Item{}, &models.StockTransaction{}, &models.RefreshToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	store := &repo.GormRepo{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	return &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        db,
		Repo:      store,
		Auth:      &AuthHTTP{Svc: &service.AuthService{Repo: store}},
		Inventory: &InventoryHTTP{Svc: &service.InventoryService{Repo: store}},
		Admin:     &AdminHTTP{Svc: &service.AdminService{Repo: store}},
	}
}

func (env *testEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := models.User{ID: uuid.New(), Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) createItem(t *testing.T, owner *models.User, name string, quantity int) *models.Item {
	t.Helper()

	item := models.Item{Name: name, Quantity: quantity, LowStockThreshold: 5, Price: 9.99, OwnerID: owner.ID}
	require.NoError(t, env.DB.Create(&item).Error)
	return &item
}

// doJSONRequest builds an echo context with the caller already resolved, the
// way the auth middleware leaves it.
func (env *testEnv) doJSONRequest(caller *models.User, method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if caller != nil {
		c.Set("callerID", caller.ID)
		c.Set("role", caller.Role)
	}
	return rec, c
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, code, httpErr.Code)
}

func login(t *testing.T, env *testEnv, email string) (string, string) {
	t.Helper()

	rec, c := env.doJSONRequest(nil, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	return resp.AccessToken, resp.RefreshToken
}

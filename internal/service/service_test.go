package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/repo"
	"github.com/stockroom/stockroom/pkg/hash"
)

type testEnv struct {
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Inventory *InventoryService
	Auth      *AuthService
	Admin     *AdminService
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
		DB:        db,
		Repo:      store,
		Inventory: &InventoryService{Repo: store},
		Auth:      &AuthService{Repo: store},
		Admin:     &AdminService{Repo: store},
	}
}

func (env *testEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: pwHash,
		ShopName:     "shop of " + email,
		Role:         role,
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) createItem(t *testing.T, owner *models.User, name string, quantity int) *models.Item {
	t.Helper()

	item := models.Item{
		Name:              name,
		Quantity:          quantity,
		LowStockThreshold: 5,
		Price:             9.99,
		OwnerID:           owner.ID,
	}
	require.NoError(t, env.DB.Create(&item).Error)
	return &item
}

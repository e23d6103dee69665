package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/models"
)

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ShopName         string `json:"shop_name"`
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	TaxID            string `json:"tax_id"`
	BusinessCategory string `json:"business_category"`
	Age              int    `json:"age"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ItemRequest struct {
	Name              string  `json:"name"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Price             float64 `json:"price"`
}

type ItemResponse struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Price             float64   `json:"price"`
	OwnerID           uuid.UUID `json:"owner_id"`
	IsLowStock        bool      `json:"is_low_stock"`
}

func ItemFromModel(i *models.Item) ItemResponse {
	return ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		Price:             i.Price,
		OwnerID:           i.OwnerID,
		IsLowStock:        i.IsLowStock(),
	}
}

func ItemsFromModels(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for n := range items {
		out[n] = ItemFromModel(&items[n])
	}
	return out
}

type TransactionResponse struct {
	ID              uint      `json:"id"`
	ItemID          uint      `json:"item_id"`
	QuantityChanged int       `json:"quantity_changed"`
	Type            string    `json:"type"`
	CreatedAt       time.Time `json:"created_at"`
}

func TransactionFromModel(tr *models.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tr.ID,
		ItemID:          tr.ItemID,
		QuantityChanged: tr.QuantityChanged,
		Type:            tr.Type,
		CreatedAt:       tr.CreatedAt,
	}
}

func TransactionsFromModels(entries []models.StockTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(entries))
	for n := range entries {
		out[n] = TransactionFromModel(&entries[n])
	}
	return out
}

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	ShopName         string    `json:"shop_name"`
	FullName         string    `json:"full_name"`
	Phone            string    `json:"phone"`
	BusinessCategory string    `json:"business_category"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

func UserFromModel(u *models.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		ShopName:         u.ShopName,
		FullName:         u.FullName,
		Phone:            u.Phone,
		BusinessCategory: u.BusinessCategory,
		Role:             u.Role,
		CreatedAt:        u.CreatedAt,
	}
}

type StatsResponse struct {
	TotalUsers          int64     `json:"total_users"`
	TotalInventoryItems int64     `json:"total_inventory_items"`
	TotalInventoryValue float64   `json:"total_inventory_value"`
	Timestamp           time.Time `json:"timestamp"`
}

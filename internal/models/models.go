package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleShopOwner = "shopowner"
	RoleAdmin     = "admin"
)

const (
	TransactionRestock = "Restock"
	TransactionSale    = "Sale"
)

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Email            string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash     string    `gorm:"not null"                 json:"-"`
	ShopName         string    `json:"shop_name"`
	FullName         string    `json:"full_name"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	TaxID            string    `json:"tax_id"`
	BusinessCategory string    `json:"business_category"`
	Age              int       `json:"age"`
	Role             string    `gorm:"not null;default:shopowner" json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

type Item struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string    `gorm:"not null"                 json:"name"`
	Quantity          int       `gorm:"not null;default:0"       json:"quantity"`
	LowStockThreshold int       `gorm:"not null;default:0"       json:"low_stock_threshold"`
	Price             float64   `gorm:"not null;default:0"       json:"price"`
	OwnerID           uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`

	// History rows go away with the item.
	Transactions []StockTransaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

type StockTransaction struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID          uint      `gorm:"index;not null"           json:"item_id"`
	QuantityChanged int       `gorm:"not null"                 json:"quantity_changed"`
	Type            string    `gorm:"not null"                 json:"type"`
	CreatedAt       time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64     `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"default:false"        json:"revoked"`
}

package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroom/stockroom/internal/models"
)

// likeEscaper keeps LIKE metacharacters in user input literal.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormRepo) ListItems(ctx context.Context, ownerID uuid.UUID, search string) ([]models.Item, error) {
	q := r.DB.WithContext(ctx).Model(&models.Item{}).Where("owner_id = ?", ownerID)
	if search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where(`lower(name) LIKE ? ESCAPE '\'`, pattern)
	}

	var items []models.Item
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ItemsByIDs(ctx context.Context, ownerID uuid.UUID, ids []uint) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}

	var items []models.Item
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetItem(ctx context.Context, ownerID uuid.UUID, itemID uint) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("id = ? AND owner_id = ?", itemID, ownerID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *GormRepo) UpdateItem(ctx context.Context, ownerID uuid.UUID, itemID uint, changes models.Item) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("id = ? AND owner_id = ?", itemID, ownerID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	item.Name = changes.Name
	item.Quantity = changes.Quantity
	item.LowStockThreshold = changes.LowStockThreshold
	item.Price = changes.Price

	if err := r.DB.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ApplyStockChange updates the quantity and appends the audit row inside one
// DB transaction, so the pair commits or rolls back together.
func (r *GormRepo) ApplyStockChange(ctx context.Context, ownerID uuid.UUID, itemID uint, delta int) (*models.Item, *models.StockTransaction, error) {
	var item models.Item
	var entry models.StockTransaction

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", itemID, ownerID).First(&item).Error; err != nil {
			return err
		}

		item.Quantity += delta
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		kind := models.TransactionSale
		if delta > 0 {
			kind = models.TransactionRestock
		}
		entry = models.StockTransaction{
			ItemID:          item.ID,
			QuantityChanged: delta,
			Type:            kind,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	return &item, &entry, nil
}

func (r *GormRepo) DeleteItem(ctx context.Context, ownerID uuid.UUID, itemID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", itemID, ownerID).Delete(&models.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// sqlite has no FK cascade here, keep the delete explicit
		return tx.Where("item_id = ?", itemID).Delete(&models.StockTransaction{}).Error
	})
}

func (r *GormRepo) ListTransactions(ctx context.Context, ownerID uuid.UUID, itemID uint) ([]models.StockTransaction, error) {
	if _, err := r.GetItem(ctx, ownerID, itemID); err != nil {
		return nil, err
	}

	var entries []models.StockTransaction
	if err := r.DB.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormRepo) CountItems(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) TotalInventoryValue(ctx context.Context) (float64, error) {
	var total float64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

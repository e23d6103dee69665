package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/events"
	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/repo"
	"github.com/stockroom/stockroom/internal/search"
	"github.com/stockroom/stockroom/pkg/logging"
)

// InventoryService owns the one piece of real business logic in the system:
// owner-scoped item access and the stock-change audit trail. Every operation
// takes the caller id resolved at the HTTP boundary; nothing here reads
// ambient identity.
type InventoryService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
	Search *search.Client
}

type ItemDraft struct {
	Name              string
	Quantity          int
	LowStockThreshold int
	Price             float64
}

func validateDraft(d ItemDraft) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if d.Quantity < 0 || d.LowStockThreshold < 0 {
		return fmt.Errorf("%w: quantity and threshold must not be negative", ErrValidation)
	}
	if d.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}

func (s *InventoryService) ListItems(ctx context.Context, callerID uuid.UUID, searchText string) ([]models.Item, error) {
	if searchText != "" && s.Search != nil {
		ids, err := s.Search.SearchItemIDs(ctx, callerID, searchText)
		if err == nil {
			return s.Repo.ItemsByIDs(ctx, callerID, ids)
		}
		logging.FromContext(ctx).Warn("search_fallback", "svc", "inventory.list_items", "error", err)
	}
	return s.Repo.ListItems(ctx, callerID, searchText)
}

func (s *InventoryService) GetItem(ctx context.Context, callerID uuid.UUID, itemID uint) (*models.Item, error) {
	return s.Repo.GetItem(ctx, callerID, itemID)
}

func (s *InventoryService) AddItem(ctx context.Context, callerID uuid.UUID, draft ItemDraft) (*models.Item, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	item := models.Item{
		Name:              draft.Name,
		Quantity:          draft.Quantity,
		LowStockThreshold: draft.LowStockThreshold,
		Price:             draft.Price,
		OwnerID:           callerID,
	}
	created, err := s.Repo.CreateItem(ctx, &item)
	if err != nil {
		return nil, err
	}

	s.indexItem(ctx, created)
	s.publish(ctx, created.OwnerID, map[string]any{
		"type":    "item_created",
		"item_id": created.ID,
		"name":    created.Name,
	})
	return created, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, callerID uuid.UUID, itemID uint, draft ItemDraft) (*models.Item, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	changes := models.Item{
		Name:              draft.Name,
		Quantity:          draft.Quantity,
		LowStockThreshold: draft.LowStockThreshold,
		Price:             draft.Price,
	}
	updated, err := s.Repo.UpdateItem(ctx, callerID, itemID, changes)
	if err != nil {
		return nil, err
	}

	s.indexItem(ctx, updated)
	s.publish(ctx, updated.OwnerID, map[string]any{
		"type":    "item_updated",
		"item_id": updated.ID,
		"name":    updated.Name,
	})
	return updated, nil
}

// UpdateStock applies a signed delta to the item's quantity, clamped at zero,
// and appends the audit row in the same DB transaction. A positive delta is a
// Restock, anything else (zero included) a Sale. A missing or foreign item is
// a silent no-op.
func (s *InventoryService) UpdateStock(ctx context.Context, callerID uuid.UUID, itemID uint, delta int) error {
	item, entry, err := s.Repo.ApplyStockChange(ctx, callerID, itemID, delta)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logging.FromContext(ctx).Warn("stock_update_skipped",
				"svc", "inventory.update_stock", "item_id", itemID, "reason", "item not found")
			return nil
		}
		return err
	}

	s.indexItem(ctx, item)
	s.publish(ctx, item.OwnerID, map[string]any{
		"type":         "stock_adjusted",
		"item_id":      item.ID,
		"delta":        entry.QuantityChanged,
		"kind":         entry.Type,
		"new_quantity": item.Quantity,
		"low_stock":    item.IsLowStock(),
	})
	return nil
}

// DeleteItem removes the item and its history; missing or foreign items are a
// silent no-op.
func (s *InventoryService) DeleteItem(ctx context.Context, callerID uuid.UUID, itemID uint) error {
	if err := s.Repo.DeleteItem(ctx, callerID, itemID); err != nil {
		if errors.Is(err, ErrNotFound) {
			logging.FromContext(ctx).Warn("delete_skipped",
				"svc", "inventory.delete_item", "item_id", itemID, "reason", "item not found")
			return nil
		}
		return err
	}

	s.removeFromIndex(ctx, itemID)
	s.publish(ctx, callerID, map[string]any{
		"type":    "item_deleted",
		"item_id": itemID,
	})
	return nil
}

func (s *InventoryService) GetHistory(ctx context.Context, callerID uuid.UUID, itemID uint) ([]models.StockTransaction, error) {
	return s.Repo.ListTransactions(ctx, callerID, itemID)
}

func (s *InventoryService) publish(ctx context.Context, callerID uuid.UUID, event map[string]any) {
	if err := s.Events.PublishEvent(ctx, events.TopicInventory, callerID.String(), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicInventory, "error", err)
	}
}

func (s *InventoryService) indexItem(ctx context.Context, item *models.Item) {
	if err := s.Search.IndexItem(ctx, item); err != nil {
		logging.FromContext(ctx).Error("index_failed", "item_id", item.ID, "error", err)
	}
}

func (s *InventoryService) removeFromIndex(ctx context.Context, itemID uint) {
	if err := s.Search.RemoveItem(ctx, itemID); err != nil {
		logging.FromContext(ctx).Error("index_remove_failed", "item_id", itemID, "error", err)
	}
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/events"
	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/repo"
	"github.com/stockroom/stockroom/pkg/logging"
)

type AdminService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

type Stats struct {
	TotalUsers          int64
	TotalInventoryItems int64
	TotalInventoryValue float64
	Timestamp           time.Time
}

// SystemStats aggregates across all tenants; only reachable behind the admin
// role check.
func (s *AdminService) SystemStats(ctx context.Context) (*Stats, error) {
	users, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CountItems(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.Repo.TotalInventoryValue(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalUsers:          users,
		TotalInventoryItems: items,
		TotalInventoryValue: value,
		Timestamp:           time.Now().UTC(),
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *AdminService) PromoteUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.setRole(ctx, userID, models.RoleAdmin, "user_promoted")
}

func (s *AdminService) DemoteUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.setRole(ctx, userID, models.RoleShopOwner, "user_demoted")
}

func (s *AdminService) setRole(ctx context.Context, userID uuid.UUID, role, eventKind string) (*models.User, error) {
	user, err := s.Repo.SetUserRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	event := map[string]any{
		"type":    eventKind,
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
	}
	if err := s.Events.PublishEvent(ctx, events.TopicUsers, user.ID.String(), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicUsers, "error", err)
	}
	return user, nil
}

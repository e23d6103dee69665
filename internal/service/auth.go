package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/events"
	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/repo"
	"github.com/stockroom/stockroom/pkg/hash"
	jwthelp "github.com/stockroom/stockroom/pkg/jwt"
	"github.com/stockroom/stockroom/pkg/logging"
	"github.com/stockroom/stockroom/pkg/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

type Registration struct {
	Email            string
	Password         string
	ShopName         string
	FullName         string
	Phone            string
	Address          string
	TaxID            string
	BusinessCategory string
	Age              int
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) CreateAccessToken(role, id string, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}

	tokenAccess := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	return tokenAccess.SignedString(s.Repo.JWTSecret)
}

func (s *AuthService) CreateRefreshToken(id string, refreshExp time.Time) (string, error) {
	refreshClaims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        jwthelp.NewJTI(),
		},
	}

	tokenRefresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	return tokenRefresh.SignedString(s.Repo.RefreshSecret)
}

func (s *AuthService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if reg.Email == "" || reg.Password == "" {
		return nil, ErrValidation
	}
	if reg.Age < 0 {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(reg.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		ID:               uuid.New(),
		Email:            reg.Email,
		PasswordHash:     pwHash,
		ShopName:         reg.ShopName,
		FullName:         reg.FullName,
		Phone:            reg.Phone,
		Address:          reg.Address,
		TaxID:            reg.TaxID,
		BusinessCategory: reg.BusinessCategory,
		Age:              reg.Age,
		Role:             models.RoleShopOwner,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			l.Warn("register_rejected", "reason", "email already registered")
			return nil, err
		}
		l.Error("register_error", "error", err)
		return nil, err
	}

	s.publishUserEvent(ctx, &user, "user_registered")
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.UserByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warn("login_failed", "reason", "invalid email or password")
			return nil, err
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	return s.issueTokens(ctx, user.ID.String(), user.Role)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.Repo.RefreshSecret)
	if err != nil || claims == nil {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.Repo.RefreshByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if stored.Revoked || time.Now().Unix() > stored.ExpiresAt {
		l.Warn("refresh_rejected", "reason", "token expired or revoked")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.UserByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.Repo.RevokeRefresh(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user.ID.String(), user.Role)
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefresh(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, userID, role string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue_tokens")

	accessExp := time.Now().Add(accessTTL)
	accessToken, err := s.CreateAccessToken(role, userID, accessExp)
	if err != nil {
		l.Error("token_error", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := s.CreateRefreshToken(userID, refreshExp)
	if err != nil {
		l.Error("token_error", "error", err)
		return nil, err
	}

	if err := s.Repo.AddRefreshToDB(ctx, refreshToken); err != nil {
		l.Error("token_store_error", "error", err)
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      role == models.RoleAdmin,
	}, nil
}

func (s *AuthService) publishUserEvent(ctx context.Context, user *models.User, kind string) {
	event := map[string]any{
		"type":    kind,
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
	}
	if err := s.Events.PublishEvent(ctx, events.TopicUsers, user.ID.String(), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicUsers, "error", err)
	}
}

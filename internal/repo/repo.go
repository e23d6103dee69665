package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

type GormRepo struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

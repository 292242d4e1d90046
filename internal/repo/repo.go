package repo

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrStaleStatus is returned when an order left the expected status between
// read and write.
var ErrStaleStatus = errors.New("order status changed concurrently")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

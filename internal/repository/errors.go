package repository

import (
	"errors"
	"fmt"

	"github.com/chatline/messenger-backend/internal/common"
	"gorm.io/gorm"
)

// translate maps gorm errors onto common errors.
// notFound is returned for gorm.ErrRecordNotFound.
func translate(err error, notFound error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, common.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

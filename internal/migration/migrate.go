package migration

import (
	"github.com/chatline/messenger-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the user directory tables.
// Message tables are created only when the SQL message store is in use.
func Run(db *gorm.DB, withMessageStore bool) error {
	// 1. 사용자 디렉터리 - 테이블 없으면 생성, 있으면 skip
	if err := db.AutoMigrate(&domain.User{}, &domain.Address{}); err != nil {
		return err
	}

	// 2. 메시지 저장소 (MongoDB 사용 시 skip)
	if !withMessageStore {
		return nil
	}
	return db.AutoMigrate(&domain.Room{}, &domain.Message{})
}

package handler

import (
	"strings"
	"sync"

	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the messenger's custom rules to gin's binding engine.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// 등록 실패는 태그 오타 같은 프로그래밍 오류
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("message_status", messageStatus); err != nil {
			panic(err)
		}
	})
}

// notBlank rejects strings made only of whitespace
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func messageStatus(fl validator.FieldLevel) bool {
	return domain.MessageStatus(fl.Field().String()).Valid()
}

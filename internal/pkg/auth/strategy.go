package auth

import (
	"time"

	"github.com/anyschool/order-service/internal/domain/model"
)

type Strategy interface {
	IssueToken(userID int64, role model.Role) (string, error)
	ParseToken(token string) (int64, model.Role, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

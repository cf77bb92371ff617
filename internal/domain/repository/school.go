package repository

import (
	"context"

	"github.com/anyschool/order-service/internal/domain/model"
)

// SchoolRepository manages schools and their students.
type SchoolRepository interface {
	Create(ctx context.Context, name string) (*model.School, error)
	GetByID(ctx context.Context, id int64) (*model.School, error)
	ListApproved(ctx context.Context) ([]model.School, error)
	Approve(ctx context.Context, id int64) (*model.School, error)

	CreateStudent(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error)
	GetStudent(ctx context.Context, id int64) (*model.Student, error)
}

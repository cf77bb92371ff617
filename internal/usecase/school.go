package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/domain/repository"
)

// SchoolUseCase manages schools and students.
type SchoolUseCase struct {
	schools repository.SchoolRepository
}

// NewSchoolUseCase constructs SchoolUseCase.
func NewSchoolUseCase(schools repository.SchoolRepository) *SchoolUseCase {
	return &SchoolUseCase{schools: schools}
}

// Request registers a school pending approval.
func (u *SchoolUseCase) Request(ctx context.Context, name string) (*model.School, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainErrors.NewValidation("name", "must not be empty")
	}
	return u.schools.Create(ctx, name)
}

// Approve flags a school as an approved entity; super admin only.
func (u *SchoolUseCase) Approve(ctx context.Context, actor model.Actor, id int64) (*model.School, error) {
	if actor.Role != model.RoleSuperAdmin {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.schools.Approve(ctx, id)
}

// ListApproved returns all approved schools.
func (u *SchoolUseCase) ListApproved(ctx context.Context) ([]model.School, error) {
	return u.schools.ListApproved(ctx)
}

// AddStudent enrolls a learner at an approved school.
func (u *SchoolUseCase) AddStudent(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, domainErrors.NewValidation("fullName", "must not be empty")
	}
	school, err := u.schools.GetByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if !school.Approved {
		return nil, domainErrors.NewValidation("schoolID", "school is not approved yet")
	}
	return u.schools.CreateStudent(ctx, schoolID, fullName, grade)
}

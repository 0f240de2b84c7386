package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

type UserRepository struct {
	readerDB *gorm.DB
}

func NewUserRepository(readerDB *gorm.DB) *UserRepository {
	return &UserRepository{readerDB: readerDB}
}

// CountActiveUsers is the live seat count for a tenant.
func (r *UserRepository) CountActiveUsers(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.readerDB.WithContext(ctx).Model(&domain.User{}).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

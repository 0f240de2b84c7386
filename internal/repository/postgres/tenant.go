package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

// TenantRepository reads and writes tenants on the primary only. The guard
// cannot tolerate replica lag on counters.
type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(writerDB *gorm.DB) *TenantRepository {
	return &TenantRepository{db: writerDB}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	tenant.Normalize()
	if err := r.db.WithContext(ctx).Create(tenant).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, domain.ErrTenantExists
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant, nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrTenantNotFound)
	}
	tenant.Normalize()
	return &tenant, nil
}

func (r *TenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	tenant.Normalize()
	result := r.db.WithContext(ctx).Save(tenant)
	if result.Error != nil {
		return fmt.Errorf("failed to save tenant %s: %w", tenant.ID, result.Error)
	}
	return nil
}

func (r *TenantRepository) UpdateConfig(ctx context.Context, tenant *domain.Tenant) error {
	tenant.Normalize()
	result := r.db.WithContext(ctx).Model(tenant).
		Select("plan", "is_active", "modules", "limits", "policy_rules", "updated_at").
		Updates(tenant)
	if result.Error != nil {
		return fmt.Errorf("failed to update tenant config %s: %w", tenant.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Tenant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *TenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	for i := range tenants {
		tenants[i].Normalize()
	}
	return tenants, nil
}

func (r *TenantRepository) ResetWindows(ctx context.Context, id string, reset domain.WindowReset) error {
	db := r.db.WithContext(ctx)

	if reset.Daily {
		err := db.Model(&domain.Tenant{}).
			Where("id = ? AND (usage_last_daily_reset_at IS NULL OR usage_last_daily_reset_at < ?)", id, reset.DayStart).
			Updates(map[string]interface{}{
				"usage_emails_today":        0,
				"usage_api_calls_today":     0,
				"usage_last_daily_reset_at": reset.At,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to reset daily usage: %w", err)
		}
	}

	if reset.Monthly {
		err := db.Model(&domain.Tenant{}).
			Where("id = ? AND (usage_last_monthly_reset_at IS NULL OR usage_last_monthly_reset_at < ?)", id, reset.MonthStart).
			Updates(map[string]interface{}{
				"usage_leads_this_month":         0,
				"usage_ai_credits_this_month":    0,
				"usage_whatsapp_msgs_this_month": 0,
				"usage_last_monthly_reset_at":    reset.At,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to reset monthly usage: %w", err)
		}
	}

	return nil
}

func (r *TenantRepository) IncrementUsage(ctx context.Context, id string, counter domain.UsageCounter, delta int64) error {
	if !domain.IsValidUsageCounter(counter) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCounter, counter)
	}
	column := string(counter)

	result := r.db.WithContext(ctx).Model(&domain.Tenant{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *TenantRepository) ResetUsage(ctx context.Context, id string, scope domain.UsageScope, at time.Time) error {
	updates := map[string]interface{}{}
	if scope.Daily() {
		updates["usage_emails_today"] = 0
		updates["usage_api_calls_today"] = 0
		updates["usage_last_daily_reset_at"] = at
	}
	if scope.Monthly() {
		updates["usage_leads_this_month"] = 0
		updates["usage_ai_credits_this_month"] = 0
		updates["usage_whatsapp_msgs_this_month"] = 0
		updates["usage_last_monthly_reset_at"] = at
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&domain.Tenant{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to reset usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

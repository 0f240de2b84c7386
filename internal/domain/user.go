package domain

import (
	"time"
)

// User is a tenant member. Active users occupy a seat against usersMax.
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TenantID  string    `gorm:"type:text;not null;index" json:"tenant_id"`
	Email     string    `gorm:"type:text;not null;unique" json:"email"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Role      string    `gorm:"type:text;not null;default:'user'" json:"role"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
	Tenant    *Tenant   `gorm:"foreignKey:TenantID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

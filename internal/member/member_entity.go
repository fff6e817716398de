package member

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UnitID       uuid.UUID `gorm:"type:uuid;index"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	FullName     string
	Email        string `gorm:"uniqueIndex"`
	MemberNumber string `gorm:"type:varchar(20);index"`
	Phone        string `gorm:"type:varchar(30)"`
	JoinDate     time.Time
	Role         string `gorm:"type:varchar(30);not null;default:'member'"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Member) TableName() string {
	return "members"
}

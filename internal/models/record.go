package models

import (
	"time"

	"github.com/google/uuid"
)

// NutritionRecord is one analyzed meal. Records are insert-only and never
// mutated after creation.
type NutritionRecord struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      string    `gorm:"size:64;not null;index:idx_user_created,priority:1" json:"user_id"`
	Username    string    `gorm:"size:128" json:"username,omitempty"`
	FoodName    string    `gorm:"size:255;not null" json:"food_name"`
	Calories    float64   `gorm:"not null" json:"calories"`
	ProteinG    float64   `gorm:"not null" json:"protein_g"`
	CarbsG      float64   `gorm:"not null" json:"carbs_g"`
	FatsG       float64   `gorm:"not null" json:"fats_g"`
	FiberG      float64   `gorm:"not null" json:"fiber_g"`
	ServingSize string    `gorm:"size:255" json:"serving_size"`
	Confidence  string    `gorm:"size:16" json:"confidence"`
	PhotoURL    string    `gorm:"size:512" json:"photo_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index:idx_user_created,priority:2" json:"created_at"`
}

// TableName keeps the table name the analytics queries expect.
func (NutritionRecord) TableName() string {
	return "nutrition_history"
}

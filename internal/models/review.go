// internal/models/review.go
package models

import (
	"github.com/google/uuid"
)

// Review is a user comment on a product. A review with a ParentID is a
// reply to another review; only one level of nesting is materialized
// when listing.
type Review struct {
	BaseModel
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	Comment   string     `json:"comment" gorm:"size:200;not null"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`

	// Relationships
	Author  User     `json:"author,omitempty" gorm:"foreignKey:UserID"`
	Replies []Review `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

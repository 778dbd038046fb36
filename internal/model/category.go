package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the tenant's item category tree. The tree is stored
// twice: parent_id for direct edges and category_relations as a materialized
// ancestor-descendant index for fast subtree queries. Both are maintained
// together inside one transaction on every create/re-parent.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CategoryRelation is one row of the closure table: ancestor reaches
// descendant in Depth steps. Every category has a depth-0 row to itself.
type CategoryRelation struct {
	AncestorID   uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"ancestor_id"`
	DescendantID uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"descendant_id"`
	Depth        int       `gorm:"type:int;not null" json:"depth"`
}

package models

import "time"

// CartSnapshot is the single-row-per-key record holding the serialized cart.
// The payload is the JSON array described by the persistence contract; the
// whole snapshot is rewritten on every cart mutation.
type CartSnapshot struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Payload   []byte    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName pins the table created by the migrations.
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

package models

import "time"

// CartSnapshot holds the serialized line items of one cart, keyed by
// <namespace>[:<session>].
type CartSnapshot struct {
	StorageKey string    `gorm:"column:storage_key;primaryKey;size:255"`
	Payload    string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (CartSnapshot) TableName() string { return "cart_snapshots" }

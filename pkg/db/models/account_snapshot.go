package models

import "time"

// AccountSnapshot stores the serialized household state under one key.
type AccountSnapshot struct {
	AccountKey string    `gorm:"column:account_key;primaryKey"`
	Payload    string    `gorm:"column:payload;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (AccountSnapshot) TableName() string { return "account_snapshots" }

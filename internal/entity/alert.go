package entity

import (
	"time"
)

// Alert 已触发的入场提醒
type Alert struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	Key         string `gorm:"index"`
	BaseSymbol  string `gorm:"index"`
	QuoteSymbol string `gorm:"index"`
	Entry       string
	Direction   string
	SentPrice   string
	SentAt      time.Time `gorm:"index"`
}

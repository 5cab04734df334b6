package entity

import (
	"time"
)

// Recommendation 一次分析周期提取出的入场机会
type Recommendation struct {
	Id           int64  `gorm:"primaryKey;autoIncrement"`
	CycleId      string `gorm:"index"`
	BaseSymbol   string `gorm:"index"`
	QuoteSymbol  string `gorm:"index"`
	Entry        string
	Exit         string
	StopLoss     string
	Direction    string `gorm:"index"`
	PositionSize string
	Rationale    string
	Provenance   string
	CreatedAt    time.Time `gorm:"index"`
}

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/array/applications-console/internal/analytics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnalyticsSnapshot is a persisted analytics report, kept for trend history
type AnalyticsSnapshot struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ComputedAt time.Time       `gorm:"not null;index" json:"computed_at"`
	Total      int             `gorm:"not null" json:"total"`
	AvgDebit   decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"avg_debit"`
	AvgCredit  decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"avg_credit"`
	Report     string          `gorm:"type:text;not null" json:"-"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

// TableName returns the table name for AnalyticsSnapshot
func (s *AnalyticsSnapshot) TableName() string {
	return "analytics_snapshots"
}

// BeforeCreate hook for AnalyticsSnapshot
func (s *AnalyticsSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.ComputedAt.IsZero() {
		s.ComputedAt = s.CreatedAt
	}
	return nil
}

// NewAnalyticsSnapshot captures a report for storage
func NewAnalyticsSnapshot(r *analytics.Report) (*AnalyticsSnapshot, error) {
	if r == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return &AnalyticsSnapshot{
		ComputedAt: r.GeneratedAt,
		Total:      r.Total,
		AvgDebit:   r.Turnover.AvgDebit,
		AvgCredit:  r.Turnover.AvgCredit,
		Report:     string(raw),
	}, nil
}

// DecodeReport returns the stored report
func (s *AnalyticsSnapshot) DecodeReport() (*analytics.Report, error) {
	var r analytics.Report
	if err := json.Unmarshal([]byte(s.Report), &r); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot report: %w", err)
	}
	return &r, nil
}

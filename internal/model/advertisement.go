package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AdPosition 广告位
type AdPosition string

const (
	AdPositionLeft     AdPosition = "left"
	AdPositionRight    AdPosition = "right"
	AdPositionHero     AdPosition = "hero"
	AdPositionProducts AdPosition = "products"
	AdPositionFooter   AdPosition = "footer"
)

// AdPositions 全部广告位，按页面渲染顺序
var AdPositions = []AdPosition{
	AdPositionLeft,
	AdPositionRight,
	AdPositionHero,
	AdPositionProducts,
	AdPositionFooter,
}

// Advertisement 店铺广告
type Advertisement struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	LinkURL     string     `json:"linkUrl,omitempty"`
	Position    AdPosition `json:"position" validate:"required,oneof=left right hero products footer"`
	TargetPages []string   `json:"targetPages"`
	StartDate   AdDate     `json:"startDate"`
	EndDate     AdDate     `json:"endDate"`
	IsActive    bool       `json:"isActive"`
}

// IsLive 广告在 page 页、now 时刻是否应展示
// 条件：isActive，且 now ∈ [startDate, endDate]，且 page ∈ targetPages
// 空的起止日期视为不限
func (a *Advertisement) IsLive(page string, now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if !a.StartDate.IsZero() && now.Before(a.StartDate.Time) {
		return false
	}
	if !a.EndDate.IsZero() && now.After(a.EndDate.Until()) {
		return false
	}
	for _, p := range a.TargetPages {
		if p == page {
			return true
		}
	}
	return false
}

// ==================== AdDate ====================

const adDateLayout = "2006-01-02"

// AdDate 广告日期，兼容 "YYYY-MM-DD" 与 RFC3339 两种写法
type AdDate struct {
	time.Time
	DateOnly bool
}

// NewAdDate 按日期构造（UTC 零点）
func NewAdDate(year int, month time.Month, day int) AdDate {
	return AdDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), DateOnly: true}
}

// Until 作为结束日期时的最后有效时刻；纯日期覆盖当天全天
func (d AdDate) Until() time.Time {
	if d.DateOnly {
		return d.Time.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d.Time
}

func (d AdDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	if d.DateOnly {
		return json.Marshal(d.Time.Format(adDateLayout))
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

func (d *AdDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = AdDate{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("ad date: %w", err)
	}
	if raw == "" {
		*d = AdDate{}
		return nil
	}
	if t, err := time.Parse(adDateLayout, raw); err == nil {
		*d = AdDate{Time: t, DateOnly: true}
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("ad date %q: want YYYY-MM-DD or RFC3339", raw)
	}
	*d = AdDate{Time: t}
	return nil
}

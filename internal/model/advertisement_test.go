package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvertisement_IsLive(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	yesterday := AdDate{Time: now.Add(-24 * time.Hour)}
	tomorrow := AdDate{Time: now.Add(24 * time.Hour)}

	base := Advertisement{
		ID:          "ad-1",
		Position:    AdPositionHero,
		TargetPages: []string{"home"},
		StartDate:   yesterday,
		EndDate:     tomorrow,
		IsActive:    true,
	}

	tests := []struct {
		name   string
		mutate func(a *Advertisement)
		page   string
		want   bool
	}{
		{"目标页面内", func(a *Advertisement) {}, "home", true},
		{"非目标页面", func(a *Advertisement) {}, "checkout", false},
		{"未启用", func(a *Advertisement) { a.IsActive = false }, "home", false},
		{"尚未开始", func(a *Advertisement) { a.StartDate = tomorrow }, "home", false},
		{"已结束", func(a *Advertisement) { a.EndDate = yesterday }, "home", false},
		{"无起止日期", func(a *Advertisement) { a.StartDate, a.EndDate = AdDate{}, AdDate{} }, "home", true},
		{"无目标页面", func(a *Advertisement) { a.TargetPages = nil }, "home", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := base
			tt.mutate(&ad)
			assert.Equal(t, tt.want, ad.IsLive(tt.page, now))
		})
	}
}

func TestAdvertisement_DateOnlyEndCoversWholeDay(t *testing.T) {
	ad := Advertisement{
		IsActive:    true,
		TargetPages: []string{"home"},
		StartDate:   NewAdDate(2024, 5, 1),
		EndDate:     NewAdDate(2024, 5, 10),
	}

	assert.True(t, ad.IsLive("home", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ad.IsLive("home", time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, ad.IsLive("home", time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ad.IsLive("home", time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC)))
}

func TestAdDate_JSON(t *testing.T) {
	var ad Advertisement
	raw := `{"id":"a","position":"left","targetPages":["home"],"startDate":"2024-05-01","endDate":"2024-05-10T18:00:00Z","isActive":true}`
	require.NoError(t, json.Unmarshal([]byte(raw), &ad))

	assert.True(t, ad.StartDate.DateOnly)
	assert.False(t, ad.EndDate.DateOnly)
	assert.Equal(t, 18, ad.EndDate.Hour())

	out, err := json.Marshal(ad)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"startDate":"2024-05-01"`)
	assert.Contains(t, string(out), `"endDate":"2024-05-10T18:00:00Z"`)

	var empty Advertisement
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"","endDate":null}`), &empty))
	assert.True(t, empty.StartDate.IsZero())
	assert.True(t, empty.EndDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"startDate":"05/01/2024"}`), &empty))
}

func TestNicknameFromEmail(t *testing.T) {
	assert.Equal(t, "a", NicknameFromEmail("a@b.com"))
	assert.Equal(t, "bob.smith", NicknameFromEmail("bob.smith@example.org"))
	assert.Equal(t, "plain", NicknameFromEmail("plain"))
}

func TestSessionFlag_IsAuthenticated(t *testing.T) {
	var nilFlag *SessionFlag
	assert.False(t, nilFlag.IsAuthenticated())
	assert.False(t, (&SessionFlag{Authenticated: true}).IsAuthenticated())
	assert.True(t, (&SessionFlag{Authenticated: true, Email: "a@b.com"}).IsAuthenticated())
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peermall/internal/model"
)

func TestSelectLiveAds_Scenario(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	ad := model.Advertisement{
		ID:          "ad-1",
		Position:    model.AdPositionHero,
		TargetPages: []string{"home"},
		StartDate:   model.AdDate{Time: now.Add(-24 * time.Hour)},
		EndDate:     model.AdDate{Time: now.Add(24 * time.Hour)},
		IsActive:    true,
	}

	home := SelectLiveAds([]model.Advertisement{ad}, "home", now)
	require.Len(t, home[model.AdPositionHero], 1)
	assert.Equal(t, "ad-1", home[model.AdPositionHero][0].ID)

	checkout := SelectLiveAds([]model.Advertisement{ad}, "checkout", now)
	assert.Empty(t, checkout[model.AdPositionHero])
}

func TestSelectLiveAds_GroupsAndKeepsOrder(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mk := func(id string, pos model.AdPosition, active bool) model.Advertisement {
		return model.Advertisement{ID: id, Position: pos, TargetPages: []string{"home", "shop"}, IsActive: active}
	}
	ads := []model.Advertisement{
		mk("l1", model.AdPositionLeft, true),
		mk("f1", model.AdPositionFooter, true),
		mk("l2", model.AdPositionLeft, false),
		mk("l3", model.AdPositionLeft, true),
		mk("f2", model.AdPositionFooter, true),
	}
	before := append([]model.Advertisement(nil), ads...)

	got := SelectLiveAds(ads, "shop", now)

	ids := func(list []model.Advertisement) []string {
		out := []string{}
		for _, a := range list {
			out = append(out, a.ID)
		}
		return out
	}
	assert.Equal(t, []string{"l1", "l3"}, ids(got[model.AdPositionLeft]))
	assert.Equal(t, []string{"f1", "f2"}, ids(got[model.AdPositionFooter]))
	assert.Empty(t, got[model.AdPositionRight])
	assert.Len(t, got, len(model.AdPositions), "每个广告位都有键")

	got[model.AdPositionLeft][0].TargetPages[0] = "mutated"
	assert.Equal(t, before, ads, "不修改入参")
}

func TestAdService_LiveAds(t *testing.T) {
	shops := setupShopService(t)
	ctx := context.Background()

	_, err := shops.Create(ctx, bob, &model.ShopRecord{
		ShopURL: "acme",
		Name:    "Acme",
		AdSettings: []model.Advertisement{
			{Position: model.AdPositionProducts, TargetPages: []string{"home"}, IsActive: true,
				StartDate: model.NewAdDate(2024, 5, 1), EndDate: model.NewAdDate(2024, 5, 10)},
		},
	})
	require.NoError(t, err)

	svc := NewAdService(shops)
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC) }
	live, err := svc.LiveAds(ctx, "acme", "home")
	require.NoError(t, err)
	assert.Len(t, live[model.AdPositionProducts], 1)

	svc.now = func() time.Time { return time.Date(2024, 5, 11, 0, 0, 1, 0, time.UTC) }
	live, err = svc.LiveAds(ctx, "acme", "home")
	require.NoError(t, err)
	assert.Empty(t, live[model.AdPositionProducts])

	_, err = svc.LiveAds(ctx, "ghost", "home")
	assert.ErrorIs(t, err, ErrShopNotFound)
}

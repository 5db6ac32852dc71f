package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Srijapotha/new-camme-project/internal/billing"
	"github.com/Srijapotha/new-camme-project/internal/ledger"
	"github.com/Srijapotha/new-camme-project/internal/mocks"
	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

func setupAdRouter(ads *mocks.AdRepositoryMock, users *mocks.UserRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAdHandler(billing.NewService(ads, users, nil), nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/ad/track-event", handler.TrackEvent)
	r.POST("/ad/metrics", handler.Metrics)
	r.POST("/ad/install", handler.Install)
	return r
}

func TestTrackEventBillsBatch(t *testing.T) {
	ads := new(mocks.AdRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := setupAdRouter(ads, users)

	ad := models.Advertisement{
		ID:          2,
		AdModel:     models.AdModelFree,
		AdElement:   models.AdElementAppInstall,
		ContentType: "image",
		Wallet:      2500,
		IsActive:    true,
	}
	actor := 1
	ads.On("GetAd", mock.Anything, 2).Return(ad, nil)
	ads.On("InsertEvents", mock.Anything, 2, models.AdEventImpression, int64(1000), &actor, (*string)(nil)).Return(nil)
	ads.On("InsertEvents", mock.Anything, 2, models.AdEventClick, int64(10), &actor, (*string)(nil)).Return(nil)
	ads.On("IncrementAnalytics", mock.Anything, 2, ledger.EventCounts{Impressions: 1000, Clicks: 10}).Return(nil)
	// 1000 impressions at CPM 145 = 145, 10 clicks at CPC 5 = 50
	ads.On("ApplyBilling", mock.Anything, 2, 0, 2305.0, 195.0, 0.0, true).Return(nil)

	rec := postJSON(router, "/ad/track-event", `{"adId":2,"impressions":1000,"clicks":10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool                `json:"success"`
		Billing billing.TrackResult `json:"billing"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 195.0, resp.Billing.Cost)
	assert.Equal(t, 2305.0, resp.Billing.WalletAfter)
	ads.AssertExpectations(t)
}

func TestTrackEventRejectsNegativeCounts(t *testing.T) {
	router := setupAdRouter(new(mocks.AdRepositoryMock), new(mocks.UserRepositoryMock))

	rec := postJSON(router, "/ad/track-event", `{"adId":2,"clicks":-5}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackEventUnknownAd(t *testing.T) {
	ads := new(mocks.AdRepositoryMock)
	router := setupAdRouter(ads, new(mocks.UserRepositoryMock))

	ads.On("GetAd", mock.Anything, 404).Return(models.Advertisement{}, repositories.ErrAdNotFound)

	rec := postJSON(router, "/ad/track-event", `{"adId":404,"clicks":1}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ads := new(mocks.AdRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := setupAdRouter(ads, users)

	ads.On("GetAd", mock.Anything, 2).Return(models.Advertisement{
		ID:          2,
		AdModel:     models.AdModelFree,
		AdElement:   models.AdElementAppInstall,
		ContentType: "image",
		Impressions: 1000,
		Clicks:      10,
		IsActive:    true,
	}, nil)
	ads.On("ListEngagementEvents", mock.Anything, 2).Return([]models.AdEvent{}, nil)

	rec := postJSON(router, "/ad/metrics", `{"adId":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Metrics billing.Metrics `json:"metrics"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1000), resp.Metrics.Impressions.Count)
	assert.Equal(t, 145.0, resp.Metrics.Impressions.Amount)
	assert.Equal(t, 50.0, resp.Metrics.Clicks.Amount)
	assert.Equal(t, 195.0, resp.Metrics.TotalBill)
}

func TestInstallBillsOneUnit(t *testing.T) {
	ads := new(mocks.AdRepositoryMock)
	router := setupAdRouter(ads, new(mocks.UserRepositoryMock))

	ad := models.Advertisement{
		ID:          3,
		AdModel:     models.AdModelFree,
		AdElement:   models.AdElementAppInstall,
		ContentType: "image",
		Wallet:      100,
		IsActive:    true,
	}
	actor := 1
	ads.On("GetAd", mock.Anything, 3).Return(ad, nil)
	ads.On("InsertEvents", mock.Anything, 3, models.AdEventInstall, int64(1), &actor, (*string)(nil)).Return(nil)
	ads.On("IncrementAnalytics", mock.Anything, 3, ledger.EventCounts{Installs: 1}).Return(nil)
	ads.On("ApplyBilling", mock.Anything, 3, 0, 70.0, 30.0, 0.0, true).Return(nil)

	rec := postJSON(router, "/ad/install", `{"adId":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	ads.AssertExpectations(t)
}

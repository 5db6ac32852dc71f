package models

import "time"

// Advertisement pricing tiers.
const (
	AdModelFree     = "free"
	AdModelPremium  = "premium"
	AdModelElite    = "elite"
	AdModelUltimate = "ultimate"
)

// Advertisement element kinds.
const (
	AdElementAppInstall = "app_installation"
	AdElementForm       = "form"
	AdElementWebpage    = "webpage"
)

// Ad event types, one per billable metric.
const (
	AdEventImpression = "impression"
	AdEventClick      = "click"
	AdEventView       = "view"
	AdEventEngagement = "engagement"
	AdEventInstall    = "install"
	AdEventFormSubmit = "formSubmit"
)

// Advertisement holds the billing-relevant fields owned by this core.
// wallet never goes negative; total_spent and overage only grow.
type Advertisement struct {
	ID           int       `db:"id" json:"id"`
	BusinessName string    `db:"business_name" json:"business_name"`
	About        *string   `db:"about_business" json:"about_business,omitempty"`
	AdContentURL *string   `db:"ad_content_url" json:"ad_content_url,omitempty"`
	AdModel      string    `db:"ad_model" json:"ad_model"`
	AdElement    string    `db:"ad_element" json:"ad_element"`
	ContentType  string    `db:"content_type" json:"content_type"`
	Wallet       float64   `db:"wallet" json:"wallet"`
	TotalSpent   float64   `db:"total_spent" json:"total_spent"`
	Overage      float64   `db:"overage" json:"overage"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	Impressions  int64     `db:"impressions" json:"impressions"`
	Clicks       int64     `db:"clicks" json:"clicks"`
	Views        int64     `db:"views" json:"views"`
	Engagements  int64     `db:"engagements" json:"engagements"`
	Installs     int64     `db:"installs" json:"installs"`
	FormSubmits  int64     `db:"form_submits" json:"form_submits"`
	Version      int       `db:"version" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AdEvent is an append-only record of a single billable unit.
type AdEvent struct {
	ID        int       `db:"id" json:"id"`
	AdID      int       `db:"ad_id" json:"ad_id"`
	EventType string    `db:"event_type" json:"event_type"`
	UserID    *int      `db:"user_id" json:"user_id,omitempty"`
	Reaction  *string   `db:"reaction" json:"reaction,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

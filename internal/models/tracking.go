package models

// TrackingRecord is one attribution row: orders and revenue credited to an
// influencer for a campaign on a given day.
type TrackingRecord struct {
	Source       string  `json:"source"`
	Campaign     string  `json:"campaign"`
	InfluencerID string  `json:"influencer_id"`
	UserID       string  `json:"user_id"`
	Product      string  `json:"product"`
	Date         Date    `json:"date"`
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
}

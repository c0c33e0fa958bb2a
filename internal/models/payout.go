package models

import "errors"

// PayoutBasis says how an influencer is compensated.
type PayoutBasis string

const (
	// BasisPost is a flat fee per post.
	BasisPost PayoutBasis = "post"
	// BasisOrder is a commission per attributed order.
	BasisOrder PayoutBasis = "order"
)

// Valid reports whether b is a known payout basis.
func (b PayoutBasis) Valid() bool {
	return b == BasisPost || b == BasisOrder
}

// PayoutRecord holds the agreed compensation for an influencer. At most one
// record per influencer is logically active; that is not structurally
// enforced here.
type PayoutRecord struct {
	InfluencerID string      `json:"influencer_id"`
	Basis        PayoutBasis `json:"basis"`
	Rate         float64     `json:"rate"`
	Orders       int64       `json:"orders"`
	TotalPayout  float64     `json:"total_payout"`
}

// Validate checks the row before it enters a dataset.
func (p *PayoutRecord) Validate() error {
	if p.InfluencerID == "" {
		return errors.New("payout influencer_id is required")
	}
	if !p.Basis.Valid() {
		return errors.New("payout basis must be \"post\" or \"order\"")
	}
	return nil
}

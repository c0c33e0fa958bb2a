package models

// Dataset is an immutable snapshot of the four campaign tables. Engine
// operations read a snapshot and return new structures; they never mutate
// the slices they are handed.
type Dataset struct {
	Influencers []Influencer     `json:"influencers"`
	Posts       []Post           `json:"posts"`
	Tracking    []TrackingRecord `json:"tracking"`
	Payouts     []PayoutRecord   `json:"payouts"`
}

// Clone returns a deep copy sharing no slice storage with the receiver.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Influencers: make([]Influencer, len(d.Influencers)),
		Posts:       make([]Post, len(d.Posts)),
		Tracking:    make([]TrackingRecord, len(d.Tracking)),
		Payouts:     make([]PayoutRecord, len(d.Payouts)),
	}
	copy(out.Influencers, d.Influencers)
	copy(out.Posts, d.Posts)
	copy(out.Tracking, d.Tracking)
	copy(out.Payouts, d.Payouts)
	return out
}

// Counts reports row counts per table.
type Counts struct {
	Influencers int `json:"influencers"`
	Posts       int `json:"posts"`
	Tracking    int `json:"tracking"`
	Payouts     int `json:"payouts"`
}

// Counts returns the row counts of the snapshot.
func (d Dataset) Counts() Counts {
	return Counts{
		Influencers: len(d.Influencers),
		Posts:       len(d.Posts),
		Tracking:    len(d.Tracking),
		Payouts:     len(d.Payouts),
	}
}

// InfluencerByID builds an index over the influencer table.
func (d Dataset) InfluencerByID() map[string]Influencer {
	idx := make(map[string]Influencer, len(d.Influencers))
	for _, inf := range d.Influencers {
		idx[inf.ID] = inf
	}
	return idx
}

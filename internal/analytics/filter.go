package analytics

import (
	"strings"

	"github.com/radiusdt/vector-insights/internal/models"
)

// FilterAll is the sentinel meaning "do not filter on this dimension".
const FilterAll = "all"

// Filter narrows a dataset to one platform/brand/category/date selection.
// Empty values and FilterAll both mean "no restriction". DateRange is either
// empty or exactly [start, end], inclusive on both ends.
type Filter struct {
	Platform  string        `json:"platform,omitempty"`
	Brand     string        `json:"brand,omitempty"`
	Category  string        `json:"category,omitempty"`
	DateRange []models.Date `json:"date_range,omitempty"`
}

func filterActive(v string) bool {
	return v != "" && !strings.EqualFold(v, FilterAll)
}

// ApplyFilters narrows the four tables to a consistent subset. Stages run in
// order, each over the previous stage's output: platform restricts all four
// tables by influencer id; category recomputes its id set from the already
// platform-filtered influencers (conjunctive, not independent); brand
// restricts tracking only; the date range restricts posts and tracking only.
// The returned tables are fresh copies and never alias the input.
func (e *Engine) ApplyFilters(ds models.Dataset, f Filter) models.Dataset {
	out := ds.Clone()

	if filterActive(f.Platform) {
		ids := make(map[string]struct{})
		for _, inf := range out.Influencers {
			if string(inf.Platform) == f.Platform {
				ids[inf.ID] = struct{}{}
			}
		}
		out = restrictToInfluencers(out, ids)
	}

	if filterActive(f.Category) {
		ids := make(map[string]struct{})
		for _, inf := range out.Influencers {
			if inf.Category == f.Category {
				ids[inf.ID] = struct{}{}
			}
		}
		out = restrictToInfluencers(out, ids)
	}

	if filterActive(f.Brand) {
		tracking := out.Tracking[:0:0]
		for _, tr := range out.Tracking {
			if tr.Campaign == f.Brand {
				tracking = append(tracking, tr)
			}
		}
		out.Tracking = tracking
	}

	if len(f.DateRange) == 2 {
		start, end := f.DateRange[0], f.DateRange[1]

		posts := out.Posts[:0:0]
		for _, p := range out.Posts {
			if inRange(p.Date, start, end) {
				posts = append(posts, p)
			}
		}
		out.Posts = posts

		tracking := out.Tracking[:0:0]
		for _, tr := range out.Tracking {
			if inRange(tr.Date, start, end) {
				tracking = append(tracking, tr)
			}
		}
		out.Tracking = tracking
	}

	return out
}

func inRange(d, start, end models.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

// restrictToInfluencers keeps only rows whose influencer id is in ids.
func restrictToInfluencers(ds models.Dataset, ids map[string]struct{}) models.Dataset {
	out := models.Dataset{}

	for _, inf := range ds.Influencers {
		if _, ok := ids[inf.ID]; ok {
			out.Influencers = append(out.Influencers, inf)
		}
	}
	for _, p := range ds.Posts {
		if _, ok := ids[p.InfluencerID]; ok {
			out.Posts = append(out.Posts, p)
		}
	}
	for _, tr := range ds.Tracking {
		if _, ok := ids[tr.InfluencerID]; ok {
			out.Tracking = append(out.Tracking, tr)
		}
	}
	for _, pr := range ds.Payouts {
		if _, ok := ids[pr.InfluencerID]; ok {
			out.Payouts = append(out.Payouts, pr)
		}
	}
	return out
}

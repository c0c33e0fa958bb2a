package analytics

import (
	"math"
	"sort"

	"github.com/radiusdt/vector-insights/internal/models"
)

// DailyTrend is revenue/orders summed over one calendar day.
type DailyTrend struct {
	Date    models.Date `json:"date"`
	Revenue float64     `json:"revenue"`
	Orders  int64       `json:"orders"`
}

// WeeklyTrend is revenue/orders summed over one ISO week number. The week
// number deliberately omits the year, so data spanning year boundaries
// aliases into the same bucket; changing that needs product sign-off.
type WeeklyTrend struct {
	Week    int     `json:"week"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// TrendReport is the time-rollup section of the insight report.
type TrendReport struct {
	Daily  []DailyTrend  `json:"daily"`
	Weekly []WeeklyTrend `json:"weekly"`
}

// AnalyzeTrends rolls tracking data up by calendar day and by ISO week,
// both ascending. An empty tracking table yields an empty report.
func (e *Engine) AnalyzeTrends(ds models.Dataset) TrendReport {
	if len(ds.Tracking) == 0 {
		return TrendReport{Daily: []DailyTrend{}, Weekly: []WeeklyTrend{}}
	}

	byDay := make(map[string]*DailyTrend)
	byWeek := make(map[int]*WeeklyTrend)
	for _, tr := range ds.Tracking {
		key := tr.Date.String()
		day, ok := byDay[key]
		if !ok {
			day = &DailyTrend{Date: tr.Date}
			byDay[key] = day
		}
		day.Revenue += tr.Revenue
		day.Orders += tr.Orders

		_, week := tr.Date.ISOWeek()
		wk, ok := byWeek[week]
		if !ok {
			wk = &WeeklyTrend{Week: week}
			byWeek[week] = wk
		}
		wk.Revenue += tr.Revenue
		wk.Orders += tr.Orders
	}

	report := TrendReport{
		Daily:  make([]DailyTrend, 0, len(byDay)),
		Weekly: make([]WeeklyTrend, 0, len(byWeek)),
	}
	for _, d := range byDay {
		report.Daily = append(report.Daily, *d)
	}
	for _, w := range byWeek {
		report.Weekly = append(report.Weekly, *w)
	}
	sort.Slice(report.Daily, func(i, j int) bool {
		return report.Daily[i].Date.Before(report.Daily[j].Date.Time)
	})
	sort.Slice(report.Weekly, func(i, j int) bool {
		return report.Weekly[i].Week < report.Weekly[j].Week
	})
	return report
}

// IncrementalROAS compares mean revenue of the most recent baselineDays
// window against everything before it and reports the lift per estimated
// cost dollar, clamped at zero. baselineDays <= 0 falls back to the
// configured default.
func (e *Engine) IncrementalROAS(ds models.Dataset, baselineDays int) float64 {
	if baselineDays <= 0 {
		baselineDays = e.cfg.BaselineDays
	}
	if len(ds.Tracking) == 0 {
		return 0
	}

	maxDate := ds.Tracking[0].Date
	for _, tr := range ds.Tracking[1:] {
		if tr.Date.After(maxDate.Time) {
			maxDate = tr.Date
		}
	}
	cutoff := maxDate.AddDays(-baselineDays)

	var baselineSum, recentSum float64
	var baselineN, recentN int
	for _, tr := range ds.Tracking {
		if tr.Date.Before(cutoff.Time) {
			baselineSum += tr.Revenue
			baselineN++
		} else {
			recentSum += tr.Revenue
			recentN++
		}
	}
	if baselineN == 0 || recentN == 0 {
		return 0
	}

	baselineMean := baselineSum / float64(baselineN)
	recentMean := recentSum / float64(recentN)

	incremental := recentMean - baselineMean
	estimatedCost := recentMean * e.cfg.CostRatio
	if estimatedCost <= 0 {
		return 0
	}

	roas := incremental / math.Max(estimatedCost, 1)
	if roas < 0 {
		return 0
	}
	return roas
}

// GrowthRate is the percentage change between two period values. A zero
// previous value reports 100 for any growth and 0 otherwise.
func GrowthRate(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

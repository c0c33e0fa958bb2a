package analytics

import (
	"math"

	"github.com/radiusdt/vector-insights/internal/models"
)

// CostStrategy names how campaign cost is derived from a snapshot.
type CostStrategy string

const (
	// PayoutBasedCost sums total_payout of payout rows whose influencer
	// appears in the snapshot's tracking data.
	PayoutBasedCost CostStrategy = "payout_based"
	// FixedRatioCost estimates cost as CostRatio of total revenue.
	FixedRatioCost CostStrategy = "fixed_ratio"
)

// ROIMetrics is the aggregate ROI/ROAS record for a snapshot.
type ROIMetrics struct {
	AvgROI       float64 `json:"avg_roi"`
	AvgROAS      float64 `json:"avg_roas"`
	ROIChange    float64 `json:"roi_change"`
	ROASChange   float64 `json:"roas_change"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCost    float64 `json:"total_cost"`

	// CostStrategy records which cost model produced TotalCost.
	CostStrategy CostStrategy `json:"cost_strategy,omitempty"`
}

// SelectCostStrategy picks the cost model for a snapshot: payout-based when
// any payout row belongs to an influencer present in the tracking table,
// fixed-ratio otherwise.
func (e *Engine) SelectCostStrategy(ds models.Dataset) CostStrategy {
	if len(ds.Payouts) == 0 {
		return FixedRatioCost
	}
	tracked := make(map[string]struct{}, len(ds.Tracking))
	for _, tr := range ds.Tracking {
		tracked[tr.InfluencerID] = struct{}{}
	}
	for _, p := range ds.Payouts {
		if _, ok := tracked[p.InfluencerID]; ok {
			return PayoutBasedCost
		}
	}
	return FixedRatioCost
}

// Cost derives total cost for the snapshot under an explicitly chosen
// strategy. Callers pick the strategy; the two call sites in this package
// deliberately differ (CalculateROIROAS selects by data availability,
// PoorPerformers always uses the fixed ratio).
func (e *Engine) Cost(ds models.Dataset, strategy CostStrategy) float64 {
	switch strategy {
	case PayoutBasedCost:
		tracked := make(map[string]struct{}, len(ds.Tracking))
		for _, tr := range ds.Tracking {
			tracked[tr.InfluencerID] = struct{}{}
		}
		var total float64
		for _, p := range ds.Payouts {
			if _, ok := tracked[p.InfluencerID]; ok {
				total += p.TotalPayout
			}
		}
		return total
	default:
		var revenue float64
		for _, tr := range ds.Tracking {
			revenue += tr.Revenue
		}
		return revenue * e.cfg.CostRatio
	}
}

// CalculateROIROAS derives the aggregate ROI/ROAS record for a snapshot.
// An empty tracking table yields the all-zero record.
func (e *Engine) CalculateROIROAS(ds models.Dataset) ROIMetrics {
	if len(ds.Tracking) == 0 {
		return ROIMetrics{}
	}

	var totalRevenue float64
	for _, tr := range ds.Tracking {
		totalRevenue += tr.Revenue
	}

	strategy := e.SelectCostStrategy(ds)
	totalCost := e.Cost(ds, strategy)

	roi := roiPercent(totalRevenue, totalCost)
	roas := 0.0
	if totalCost > 0 {
		roas = totalRevenue / math.Max(totalCost, 1)
	}

	return ROIMetrics{
		AvgROI:       roi,
		AvgROAS:      roas,
		ROIChange:    roi - e.cfg.BenchmarkROI,
		ROASChange:   roas - e.cfg.BenchmarkROAS,
		TotalRevenue: totalRevenue,
		TotalCost:    totalCost,
		CostStrategy: strategy,
	}
}

// roiPercent applies the shared ROI formula: zero when there is no cost
// signal, with the divisor floored at 1 so near-zero costs cannot explode
// the percentage.
func roiPercent(revenue, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return (revenue - cost) / math.Max(cost, 1) * 100
}

package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/radiusdt/vector-insights/internal/models"
)

// SchemaError reports a required column missing from an input table. It is
// fatal to the load; no partial dataset is produced.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q is missing required column %q", e.Table, e.Column)
}

// Required column names per table, exact and case-sensitive.
var (
	influencerColumns = []string{"ID", "name", "category", "gender", "follower_count", "platform"}
	postColumns       = []string{"influencer_id", "platform", "date", "URL", "caption", "reach", "likes", "comments"}
	trackingColumns   = []string{"source", "campaign", "influencer_id", "user_id", "product", "date", "orders", "revenue"}
	payoutColumns     = []string{"influencer_id", "basis", "rate", "orders", "total_payout"}
)

// csvTable reads a CSV stream, validates the header against required
// columns, and returns one map per row keyed by column name.
func csvTable(table string, r io.Reader, required []string) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", table, err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, col := range required {
		if _, ok := colIdx[col]; !ok {
			return nil, &SchemaError{Table: table, Column: col}
		}
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", table, err)
		}
		row := make(map[string]string, len(required))
		for _, col := range required {
			idx := colIdx[col]
			if idx < len(record) {
				row[col] = record[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// LoadCSV assembles a dataset from four CSV streams. Any nil reader leaves
// its table empty; a missing required column aborts with *SchemaError.
func LoadCSV(influencers, posts, tracking, payouts io.Reader) (models.Dataset, error) {
	var ds models.Dataset

	if influencers != nil {
		rows, err := csvTable("influencers", influencers, influencerColumns)
		if err != nil {
			return models.Dataset{}, err
		}
		for _, row := range rows {
			ds.Influencers = append(ds.Influencers, models.Influencer{
				ID:            row["ID"],
				Name:          row["name"],
				Category:      row["category"],
				Gender:        row["gender"],
				FollowerCount: parseInt(row["follower_count"]),
				Platform:      models.Platform(row["platform"]),
			})
		}
	}

	if posts != nil {
		rows, err := csvTable("posts", posts, postColumns)
		if err != nil {
			return models.Dataset{}, err
		}
		for _, row := range rows {
			date, _ := models.ParseDate(row["date"])
			ds.Posts = append(ds.Posts, models.Post{
				InfluencerID: row["influencer_id"],
				Platform:     models.Platform(row["platform"]),
				Date:         date,
				URL:          row["URL"],
				Caption:      row["caption"],
				Reach:        parseInt(row["reach"]),
				Likes:        parseInt(row["likes"]),
				Comments:     parseInt(row["comments"]),
			})
		}
	}

	if tracking != nil {
		rows, err := csvTable("tracking", tracking, trackingColumns)
		if err != nil {
			return models.Dataset{}, err
		}
		for _, row := range rows {
			date, _ := models.ParseDate(row["date"])
			ds.Tracking = append(ds.Tracking, models.TrackingRecord{
				Source:       row["source"],
				Campaign:     row["campaign"],
				InfluencerID: row["influencer_id"],
				UserID:       row["user_id"],
				Product:      row["product"],
				Date:         date,
				Orders:       parseInt(row["orders"]),
				Revenue:      parseFloat(row["revenue"]),
			})
		}
	}

	if payouts != nil {
		rows, err := csvTable("payouts", payouts, payoutColumns)
		if err != nil {
			return models.Dataset{}, err
		}
		for _, row := range rows {
			ds.Payouts = append(ds.Payouts, models.PayoutRecord{
				InfluencerID: row["influencer_id"],
				Basis:        models.PayoutBasis(row["basis"]),
				Rate:         parseFloat(row["rate"]),
				Orders:       parseInt(row["orders"]),
				TotalPayout:  parseFloat(row["total_payout"]),
			})
		}
	}

	return ds, nil
}

package listing

import "github.com/pauljones0/dealflow-hub/internal/models"

// Bucket returns the deals shown in a kanban column. The featured column holds
// every featured deal whatever its status; the other columns match status
// exactly. Membership is independent, so a featured active deal appears in
// both the active and the featured column.
func Bucket(deals []models.Deal, column models.Column) []models.Deal {
	if column == models.ColumnFeatured {
		return Featured(deals)
	}
	return filter(deals, func(d models.Deal) bool { return string(d.Status) == string(column) })
}

// Board is the admin kanban board.
type Board struct {
	Inactive []models.Deal `json:"inactive"`
	Active   []models.Deal `json:"active"`
	Featured []models.Deal `json:"featured"`
}

// NewBoard buckets deals into all three columns.
func NewBoard(deals []models.Deal) Board {
	return Board{
		Inactive: Bucket(deals, models.ColumnInactive),
		Active:   Bucket(deals, models.ColumnActive),
		Featured: Bucket(deals, models.ColumnFeatured),
	}
}

// Column returns the bucket for c.
func (b Board) Column(c models.Column) []models.Deal {
	switch c {
	case models.ColumnInactive:
		return b.Inactive
	case models.ColumnActive:
		return b.Active
	case models.ColumnFeatured:
		return b.Featured
	}
	return nil
}

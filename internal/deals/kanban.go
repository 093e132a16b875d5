package deals

import (
	"github.com/pauljones0/dealflow-hub/internal/models"
)

// DropPatch translates a drop onto a kanban column into a field update.
// Featuring force-activates a deal and demoting strips featured.
func DropPatch(column models.Column) (models.DealPatch, error) {
	active := models.StatusActive
	switch column {
	case models.ColumnFeatured:
		featured := true
		return models.DealPatch{Featured: &featured, Status: &active}, nil
	case models.ColumnActive:
		return models.DealPatch{Status: &active}, nil
	case models.ColumnInactive:
		status := models.StatusInactive
		featured := false
		return models.DealPatch{Status: &status, Featured: &featured}, nil
	default:
		return models.DealPatch{}, models.NewValidationError("column", "Unknown column "+string(column))
	}
}

// ToggleFeaturedPatch flips featured and leaves status alone.
func ToggleFeaturedPatch(d models.Deal) models.DealPatch {
	featured := !d.Featured
	return models.DealPatch{Featured: &featured}
}

// ToggleStatusPatch flips between active and inactive and leaves featured alone.
func ToggleStatusPatch(d models.Deal) models.DealPatch {
	status := models.StatusActive
	if d.Status == models.StatusActive {
		status = models.StatusInactive
	}
	return models.DealPatch{Status: &status}
}

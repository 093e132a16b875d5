// Package listing derives the ordered views every surface renders from a
// deal collection. Nothing here mutates its input.
package listing

import (
	"slices"
	"strings"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// DefaultTrendingLimit is the size of the trending list when none is given.
const DefaultTrendingLimit = 10

// Sort keys accepted by Sort.
const (
	SortVotes  = "votes"
	SortEnding = "ending"
	SortNewest = "newest"
)

// Status filters accepted by FilterByStatus.
const (
	StatusFilterActive   = "active"
	StatusFilterFeatured = "featured"
)

// Options is the filter and sort selection of the public deal list.
type Options struct {
	Category string
	Status   string
	SortBy   string
	Query    string
}

// Apply runs the list pipeline: search, category, status, then sort.
func Apply(deals []models.Deal, opts Options) []models.Deal {
	out := Search(deals, opts.Query)
	out = FilterByCategory(out, opts.Category)
	out = FilterByStatus(out, opts.Status)
	return Sort(out, opts.SortBy)
}

func filter(deals []models.Deal, keep func(models.Deal) bool) []models.Deal {
	out := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if keep(d) {
			out = append(out, d.Clone())
		}
	}
	return out
}

func clone(deals []models.Deal) []models.Deal {
	return filter(deals, func(models.Deal) bool { return true })
}

// FilterByCategory keeps deals whose category matches exactly. An empty
// category passes everything through.
func FilterByCategory(deals []models.Deal, category string) []models.Deal {
	if category == "" {
		return clone(deals)
	}
	return filter(deals, func(d models.Deal) bool { return d.Category == category })
}

// FilterByStatus keeps active deals for "active" and featured deals for
// "featured". Any other value is a pass-through.
func FilterByStatus(deals []models.Deal, status string) []models.Deal {
	switch status {
	case StatusFilterActive:
		return filter(deals, func(d models.Deal) bool { return d.Status == models.StatusActive })
	case StatusFilterFeatured:
		return filter(deals, func(d models.Deal) bool { return d.Featured })
	default:
		return clone(deals)
	}
}

// Sort orders deals by key: "votes" descending, "ending" by soonest expiry,
// anything else newest first. Ties keep their input order.
func Sort(deals []models.Deal, key string) []models.Deal {
	out := clone(deals)
	switch key {
	case SortVotes:
		slices.SortStableFunc(out, byVotes)
	case SortEnding:
		slices.SortStableFunc(out, func(a, b models.Deal) int { return a.ExpiryDate.Compare(b.ExpiryDate) })
	default:
		slices.SortStableFunc(out, func(a, b models.Deal) int { return b.PostedDate.Compare(a.PostedDate) })
	}
	return out
}

func byVotes(a, b models.Deal) int {
	return b.Votes - a.Votes
}

// Trending returns the limit most voted deals. A non-positive limit uses
// DefaultTrendingLimit.
func Trending(deals []models.Deal, limit int) []models.Deal {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	out := Sort(deals, SortVotes)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func Featured(deals []models.Deal) []models.Deal {
	return filter(deals, func(d models.Deal) bool { return d.Featured })
}

// CategoryCount is the number of deals in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryCounts groups deals by category in first-seen order.
func CategoryCounts(deals []models.Deal) []CategoryCount {
	idx := make(map[string]int)
	var out []CategoryCount
	for _, d := range deals {
		i, ok := idx[d.Category]
		if !ok {
			i = len(out)
			idx[d.Category] = i
			out = append(out, CategoryCount{Category: d.Category})
		}
		out[i].Count++
	}
	return out
}

// Search keeps deals whose title, description or category contains query,
// ignoring case. A blank query passes everything through.
func Search(deals []models.Deal, query string) []models.Deal {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clone(deals)
	}
	return filter(deals, func(d models.Deal) bool {
		return strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Description), q) ||
			strings.Contains(strings.ToLower(d.Category), q)
	})
}

// EmailOrder lists featured deals first, then by votes descending.
func EmailOrder(deals []models.Deal) []models.Deal {
	out := clone(deals)
	slices.SortStableFunc(out, func(a, b models.Deal) int {
		if a.Featured != b.Featured {
			if a.Featured {
				return -1
			}
			return 1
		}
		return byVotes(a, b)
	})
	return out
}

// SwipeQueue returns the active deals not yet ignored or favorited.
func SwipeQueue(deals []models.Deal) []models.Deal {
	return filter(deals, func(d models.Deal) bool {
		return d.Status == models.StatusActive && !d.Ignored && !d.Favorited
	})
}

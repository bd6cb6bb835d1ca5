package models

// FilterAll selects every category.
const FilterAll = "all"

// Stats holds the aggregate counts shown on the admin dashboard.
type Stats struct {
	Total       int
	Bug         int
	Feature     int
	Improvement int
	General     int
}

// ComputeStats counts records per category.
func ComputeStats(records []FeedbackRecord) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Category {
		case CategoryBug:
			s.Bug++
		case CategoryFeature:
			s.Feature++
		case CategoryImprovement:
			s.Improvement++
		case CategoryGeneral:
			s.General++
		}
	}
	return s
}

// FilterByCategory returns the records matching filter, which is either
// FilterAll or a category name. The input slice is not modified.
func FilterByCategory(records []FeedbackRecord, filter string) []FeedbackRecord {
	if filter == "" || filter == FilterAll {
		return append([]FeedbackRecord(nil), records...)
	}
	out := make([]FeedbackRecord, 0, len(records))
	for _, r := range records {
		if string(r.Category) == filter {
			out = append(out, r)
		}
	}
	return out
}

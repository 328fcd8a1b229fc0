package engine

// ============================================================================
// FILTERS - Dimension-Based Filtering via RecordView
// ============================================================================
// Single pass over the view. Returns a SubView (index list into parent) -
// zero data copy.
// ============================================================================

// Where returns a view of rows whose dimension equals one of values.
// No values = no restriction (returns original view).
func Where(view RecordView, dimension string, values ...string) RecordView {
	if len(values) == 0 {
		return view
	}

	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if allowed[view.Dimension(i, dimension)] {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// WhereMeasure returns a view of rows whose measure satisfies keep.
func WhereMeasure(view RecordView, measure string, keep func(float64) bool) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(view.Measure(i, measure)) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

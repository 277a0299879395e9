package orgchart

// Deduplicate removes generalised rows that are immediately refined by the
// row that follows them.
//
// Rows are compared pairwise in input order. When the current row has fewer
// absent segments than the previous one, the previous row is dropped;
// otherwise the previous row is kept. The last row is always kept. The
// heuristic relies on the source listing parents right before their
// refinements and makes no attempt to detect inputs that break that order.
func Deduplicate(rows []Row) []Row {
	if len(rows) == 0 {
		return nil
	}

	out := make([]Row, 0, len(rows))
	prev := rows[0]
	for _, cur := range rows[1:] {
		diff := prev.AbsentCount() - cur.AbsentCount()
		if diff <= 0 {
			out = append(out, prev)
		}
		prev = cur
	}
	return append(out, prev)
}

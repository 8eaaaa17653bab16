package ngram

// Resolve intersects candidate posting sets in order, seeding from the
// first and restricting with each subsequent one (retainAll semantics). It
// short-circuits once the running candidate count is at most one, matching
// the documented over-match contract: a query with fewer than Size
// non-wildcard contiguous characters can return keys that a literal glob
// match would have rejected.
func Resolve(candidates []*PostingSet) []string {
	if len(candidates) == 0 {
		return nil
	}

	result := candidates[0]
	for _, c := range candidates[1:] {
		if result.Len() <= 1 {
			break
		}
		result = result.And(c)
	}
	return result.Keys()
}

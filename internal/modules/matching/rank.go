package matching

import "sort"

// Rank returns a copy of cands ordered by rating descending, then distance
// ascending. Full ties keep their input order.
func Rank(cands []Candidate) []Candidate {
	ranked := make([]Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}

// SelectWinner splits a ranked list into the winner and up to three alternatives.
func SelectWinner(ranked []Candidate) (Candidate, []Candidate, bool) {
	if len(ranked) == 0 {
		return Candidate{}, nil, false
	}
	end := 1 + maxAlternatives
	if end > len(ranked) {
		end = len(ranked)
	}
	alts := make([]Candidate, end-1)
	copy(alts, ranked[1:end])
	return ranked[0], alts, true
}

// Explain lists why the winner was chosen, always four entries in fixed order.
func Explain(winner Candidate, requested int) []string {
	reasons := make([]string, 0, 4)
	reasons = append(reasons, ReasonInStock)

	switch {
	case winner.Rating >= excellentRating:
		reasons = append(reasons, ReasonExcellent)
	case winner.Rating >= veryGoodRating:
		reasons = append(reasons, ReasonVeryGood)
	default:
		reasons = append(reasons, ReasonGood)
	}

	switch {
	case winner.DistanceKm < closestKm:
		reasons = append(reasons, ReasonClosest)
	case winner.DistanceKm < nearKm:
		reasons = append(reasons, ReasonNear)
	default:
		reasons = append(reasons, ReasonNearby)
	}

	if winner.AvailableQuantity >= ampleStockRatio*requested {
		reasons = append(reasons, ReasonAmpleStock)
	} else {
		reasons = append(reasons, ReasonAdequateStock)
	}
	return reasons
}

package matching

import (
	"medmatch/internal/modules/supplier"
	"medmatch/internal/types"
)

// Selection is the outcome of matching one request against a loaded pool.
type Selection struct {
	Winner       Candidate
	Alternatives []Candidate
	Reasons      []string
	Candidates   int
}

// Select filters pool, ranks the candidates and explains the winner. It has
// no side effects; FindSupplier and the offline rank command share it.
func Select(origin types.Point, equipmentName string, quantity int, pool []supplier.Supplier) (*Selection, error) {
	if !origin.IsSet() {
		return nil, ErrLocationNotSet
	}
	if len(pool) == 0 {
		return nil, ErrNoSuppliers
	}
	cands, err := FilterCandidates(origin, equipmentName, quantity, pool)
	if err != nil {
		return nil, err
	}
	winner, alts, ok := SelectWinner(Rank(cands))
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "no suppliers found with %s (min %d)", equipmentName, quantity)
	}
	return &Selection{
		Winner:       winner,
		Alternatives: alts,
		Reasons:      Explain(winner, quantity),
		Candidates:   len(cands),
	}, nil
}

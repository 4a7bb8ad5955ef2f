package matching

import (
	"strings"

	"medmatch/internal/geo"
	"medmatch/internal/modules/supplier"
	"medmatch/internal/types"
)

// FilterCandidates keeps, in pool order, every eligible supplier whose first
// item named equipmentName (case-insensitive, untrimmed) has at least quantity
// units. An empty result is not an error here.
func FilterCandidates(origin types.Point, equipmentName string, quantity int, pool []supplier.Supplier) ([]Candidate, error) {
	if !origin.IsSet() {
		return nil, ErrLocationNotSet
	}
	out := make([]Candidate, 0, len(pool))
	for _, sp := range pool {
		if !sp.Eligible() {
			continue
		}
		item, ok := firstMatch(sp.Items, equipmentName, quantity)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			SupplierID:        sp.ID,
			Name:              sp.Name,
			ShopName:          sp.ShopName,
			Rating:            sp.Rating,
			ContactNumber:     sp.ContactNumber,
			Address:           sp.Address,
			DistanceKm:        geo.DistanceKm(origin, sp.Location),
			AvailableQuantity: item.Quantity,
			Price:             item.Price,
			ItemID:            item.ID,
			Location:          sp.Location,
		})
	}
	return out, nil
}

func firstMatch(items []supplier.InventoryItem, name string, quantity int) (supplier.InventoryItem, bool) {
	for _, it := range items {
		if strings.EqualFold(it.ItemName, name) && it.Quantity >= quantity {
			return it, true
		}
	}
	return supplier.InventoryItem{}, false
}

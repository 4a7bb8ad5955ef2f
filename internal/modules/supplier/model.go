// README: Supplier profile and inventory.
package supplier

import (
	"time"

	"medmatch/internal/types"
)

// MinRating is the lowest rating a supplier may have and still be matched.
const MinRating = 1.0

type Supplier struct {
	ID              types.ID        `json:"id"`
	Name            string          `json:"name"`
	ShopName        string          `json:"shopName"`
	Address         string          `json:"address"`
	ContactNumber   string          `json:"contactNumber"`
	Location        types.Point     `json:"location"`
	Rating          float64         `json:"rating"`
	ProfileComplete bool            `json:"profileComplete"`
	Items           []InventoryItem `json:"items"`
}

type InventoryItem struct {
	ID          types.ID  `json:"id"`
	ItemName    string    `json:"itemName"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	DateAdded   time.Time `json:"dateAdded"`
}

// Eligible reports whether the supplier may take part in matching.
func (s Supplier) Eligible() bool {
	return s.ProfileComplete && s.Location.IsSet() && s.Rating >= MinRating
}

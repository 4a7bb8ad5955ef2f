// README: Match request, candidate and result types.
package matching

import (
	"medmatch/internal/maps"
	"medmatch/internal/types"
)

// Request is a hospital's ask for one item. Urgency is the raw client value;
// empty means normal.
type Request struct {
	HospitalID     types.ID
	EquipmentName  string
	Quantity       int
	Urgency        string
	IdempotencyKey string
}

// Candidate is an eligible supplier holding the requested item in sufficient quantity.
type Candidate struct {
	SupplierID        types.ID    `json:"supplierId"`
	Name              string      `json:"name"`
	ShopName          string      `json:"shopName"`
	Rating            float64     `json:"rating"`
	ContactNumber     string      `json:"contactNumber"`
	Address           string      `json:"address"`
	DistanceKm        float64     `json:"distanceKm"`
	AvailableQuantity int         `json:"availableQuantity"`
	Price             float64     `json:"price"`
	ItemID            types.ID    `json:"itemId"`
	Location          types.Point `json:"location"`
}

type Result struct {
	OrderID      types.ID             `json:"orderId"`
	RequestID    types.ID             `json:"requestId"`
	Supplier     Candidate            `json:"supplier"`
	Reasons      []string             `json:"reasons"`
	Alternatives []Candidate          `json:"alternativeSuppliers"`
	Travel       *maps.TravelEstimate `json:"travel,omitempty"`
}

const (
	maxAlternatives = 3

	excellentRating = 4.5
	veryGoodRating  = 4.0
	closestKm       = 5.0
	nearKm          = 10.0
	ampleStockRatio = 2
)

const (
	ReasonInStock       = "has requested item in stock"
	ReasonExcellent     = "excellent rating"
	ReasonVeryGood      = "very good rating"
	ReasonGood          = "good rating"
	ReasonClosest       = "closest (<5km)"
	ReasonNear          = "near (<10km)"
	ReasonNearby        = "nearby"
	ReasonAmpleStock    = "ample stock"
	ReasonAdequateStock = "adequate stock"
)

package domain

import "time"

type ShipmentStatus string

const (
	StatusInTransit ShipmentStatus = "in-transit"
	StatusDelivered ShipmentStatus = "delivered"
)

// A buyer's request to purchase a drug from the tier directly above it.
// Identified by (buyer CRN, drug name).
type PurchaseOrder struct {
	POID      string    `json:"poID"`
	DrugName  string    `json:"drugName"`
	Quantity  int       `json:"quantity"`
	Buyer     string    `json:"buyer"`
	Seller    string    `json:"seller"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Goods dispatched by the seller against a purchase order.
// Assets holds drug keys and is fixed at creation. Status moves from
// in-transit to delivered exactly once.
type Shipment struct {
	ShipmentID  string         `json:"shipmentID"`
	Creator     string         `json:"creator"`
	Assets      []string       `json:"assets"`
	Transporter string         `json:"transporter"`
	Status      ShipmentStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

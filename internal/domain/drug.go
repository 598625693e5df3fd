package domain

import "time"

// A single serialised drug unit.
// Owner holds a company key while the unit is in the supply chain and the
// consumer identifier once it has been sold at retail.
type Drug struct {
	ProductID    string    `json:"productID"`
	DrugName     string    `json:"drugName"`
	SerialNo     string    `json:"serialNo"`
	Manufacturer string    `json:"manufacturer"`
	MfgDate      string    `json:"mfgDate"`
	ExpDate      string    `json:"expDate"`
	Owner        string    `json:"owner"`
	Shipments    []string  `json:"shipment"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// One recorded version of a ledger key.
// Value is the decoded JSON document when the stored bytes are JSON,
// otherwise the raw string.
type HistoryEntry struct {
	TxID      string    `json:"txId"`
	Timestamp time.Time `json:"timestamp"`
	IsDelete  bool      `json:"isDelete"`
	Value     any       `json:"value"`
}

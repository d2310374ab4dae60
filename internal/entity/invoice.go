package entity

// ProductRecord is one extracted product line item. Quantity, unit price, and
// total are each read from the document independently and never computed from
// one another; disagreement between them is data, surfaced by the reconcile
// package.
type ProductRecord struct {
	ProductCode string  `json:"product_code"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	PONumber    string  `json:"po_number,omitempty"`
}

// ServiceRecord is one extracted service line item. Same independence rule as
// ProductRecord: Amount is the stated amount, not hours times rate.
type ServiceRecord struct {
	ServiceName string  `json:"service_name"`
	Hours       int     `json:"hours"`
	RatePerHour float64 `json:"rate_per_hour"`
	Amount      float64 `json:"amount"`
}

// SupplierInfo is the supplier block from the document header: the
// legal-entity line and the address line right under it.
type SupplierInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// HeaderFacts holds the singleton facts pulled from the full document text.
// Every field is independently optional. PONumbers keeps first-appearance
// order and retains duplicates.
type HeaderFacts struct {
	InvoiceNumber string
	Supplier      *SupplierInfo
	PONumbers     []string
}

// Package reconcile cross-checks extracted invoice facts for internal
// consistency. Everything here is a pure function over already-frozen
// records: no I/O, no mutation of inputs.
package reconcile

import (
	"math"
	"slices"

	"invoice-extractor/internal/entity"
)

// DefaultPriceTolerance is the absolute gap between quantity*unit_price and
// the stated total above which a mismatch is reported. The comparison is
// strictly greater-than: a gap of exactly the tolerance is not a mismatch.
const DefaultPriceTolerance = 0.01

// ProductMismatch reports one product whose stated total disagrees with
// quantity times unit price.
type ProductMismatch struct {
	ProductCode   string  `json:"product_code"`
	ExpectedTotal float64 `json:"expected_total"`
	ActualTotal   float64 `json:"actual_total"`
}

// ServiceMismatch reports one service whose stated amount disagrees with
// hours times rate.
type ServiceMismatch struct {
	ServiceName   string  `json:"service_name"`
	ExpectedTotal float64 `json:"expected_total"`
	ActualTotal   float64 `json:"actual_total"`
}

type ProductReport struct {
	PriceMismatches      []ProductMismatch `json:"price_mismatches"`
	TotalInconsistencies int               `json:"total_inconsistencies"`
}

type ServiceReport struct {
	PriceMismatches      []ServiceMismatch `json:"price_mismatches"`
	TotalInconsistencies int               `json:"total_inconsistencies"`
}

// POReport lists purchase orders referenced by a product but absent from the
// header, and header purchase orders never referenced by any product.
type POReport struct {
	MissingInExtracted   []string `json:"missing_in_extracted"`
	UnusedInProducts     []string `json:"unused_in_products"`
	TotalInconsistencies int      `json:"total_inconsistencies"`
}

// Products compares each product's stated total against quantity*unit_price.
// tolerance <= 0 selects DefaultPriceTolerance. The reported expected value
// is rounded to 2 decimals; the comparison uses the raw product.
func Products(products []entity.ProductRecord, tolerance float64) ProductReport {
	if tolerance <= 0 {
		tolerance = DefaultPriceTolerance
	}
	mismatches := make([]ProductMismatch, 0)
	for _, p := range products {
		expected := float64(p.Quantity) * p.UnitPrice
		if math.Abs(expected-p.TotalPrice) > tolerance {
			mismatches = append(mismatches, ProductMismatch{
				ProductCode:   p.ProductCode,
				ExpectedTotal: round2(expected),
				ActualTotal:   p.TotalPrice,
			})
		}
	}
	return ProductReport{PriceMismatches: mismatches, TotalInconsistencies: len(mismatches)}
}

// Services is the hours*rate counterpart of Products.
func Services(services []entity.ServiceRecord, tolerance float64) ServiceReport {
	if tolerance <= 0 {
		tolerance = DefaultPriceTolerance
	}
	mismatches := make([]ServiceMismatch, 0)
	for _, s := range services {
		expected := float64(s.Hours) * s.RatePerHour
		if math.Abs(expected-s.Amount) > tolerance {
			mismatches = append(mismatches, ServiceMismatch{
				ServiceName:   s.ServiceName,
				ExpectedTotal: round2(expected),
				ActualTotal:   s.Amount,
			})
		}
	}
	return ServiceReport{PriceMismatches: mismatches, TotalInconsistencies: len(mismatches)}
}

// PurchaseOrders computes the two-way difference between PO numbers embedded
// in product records and PO numbers mentioned in the header text. Both lists
// keep source order and duplicates.
func PurchaseOrders(products []entity.ProductRecord, headerPOs []string) POReport {
	productPOs := make([]string, 0)
	for _, p := range products {
		if p.PONumber != "" {
			productPOs = append(productPOs, p.PONumber)
		}
	}

	missing := make([]string, 0)
	for _, po := range productPOs {
		if !slices.Contains(headerPOs, po) {
			missing = append(missing, po)
		}
	}
	unused := make([]string, 0)
	for _, po := range headerPOs {
		if !slices.Contains(productPOs, po) {
			unused = append(unused, po)
		}
	}
	return POReport{
		MissingInExtracted:   missing,
		UnusedInProducts:     unused,
		TotalInconsistencies: len(missing) + len(unused),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

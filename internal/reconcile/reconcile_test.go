package reconcile

import (
	"reflect"
	"testing"

	"invoice-extractor/internal/entity"
)

func TestProducts(t *testing.T) {
	tests := []struct {
		name     string
		products []entity.ProductRecord
		want     []ProductMismatch
	}{
		{
			name: "stated total disagrees",
			products: []entity.ProductRecord{
				{ProductCode: "PRD-001", Quantity: 3, UnitPrice: 10, TotalPrice: 31},
			},
			want: []ProductMismatch{{ProductCode: "PRD-001", ExpectedTotal: 30, ActualTotal: 31}},
		},
		{
			name: "exact agreement",
			products: []entity.ProductRecord{
				{ProductCode: "PRD-001", Quantity: 3, UnitPrice: 10, TotalPrice: 30},
			},
			want: []ProductMismatch{},
		},
		{
			// comparison is strictly greater-than: a gap of exactly the
			// tolerance is tolerated
			name: "gap equals tolerance",
			products: []entity.ProductRecord{
				{ProductCode: "PRD-002", Quantity: 0, UnitPrice: 5, TotalPrice: 0.01},
			},
			want: []ProductMismatch{},
		},
		{
			// expected is reported rounded to 2 decimals
			name: "expected rounded in report",
			products: []entity.ProductRecord{
				{ProductCode: "PRD-003", Quantity: 3, UnitPrice: 10.333333, TotalPrice: 32},
			},
			want: []ProductMismatch{{ProductCode: "PRD-003", ExpectedTotal: 31, ActualTotal: 32}},
		},
		{
			name:     "no products",
			products: nil,
			want:     []ProductMismatch{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Products(tt.products, 0)
			if !reflect.DeepEqual(got.PriceMismatches, tt.want) {
				t.Errorf("PriceMismatches = %+v, want %+v", got.PriceMismatches, tt.want)
			}
			if got.TotalInconsistencies != len(tt.want) {
				t.Errorf("TotalInconsistencies = %d, want %d", got.TotalInconsistencies, len(tt.want))
			}
		})
	}
}

func TestServices(t *testing.T) {
	services := []entity.ServiceRecord{
		{ServiceName: "Consulting", Hours: 10, RatePerHour: 80, Amount: 800},
		{ServiceName: "Support", Hours: 2, RatePerHour: 50, Amount: 120},
	}
	got := Services(services, 0)
	want := []ServiceMismatch{{ServiceName: "Support", ExpectedTotal: 100, ActualTotal: 120}}
	if !reflect.DeepEqual(got.PriceMismatches, want) {
		t.Errorf("PriceMismatches = %+v, want %+v", got.PriceMismatches, want)
	}
	if got.TotalInconsistencies != 1 {
		t.Errorf("TotalInconsistencies = %d, want 1", got.TotalInconsistencies)
	}
}

func TestPurchaseOrders(t *testing.T) {
	tests := []struct {
		name        string
		products    []entity.ProductRecord
		headerPOs   []string
		wantMissing []string
		wantUnused  []string
	}{
		{
			name:        "header po never referenced",
			products:    []entity.ProductRecord{{ProductCode: "PRD-1", PONumber: "100"}},
			headerPOs:   []string{"100", "200"},
			wantMissing: []string{},
			wantUnused:  []string{"200"},
		},
		{
			name:        "product po absent from header",
			products:    []entity.ProductRecord{{ProductCode: "PRD-1", PONumber: "300"}},
			headerPOs:   []string{},
			wantMissing: []string{"300"},
			wantUnused:  []string{},
		},
		{
			name: "duplicates and order preserved",
			products: []entity.ProductRecord{
				{ProductCode: "PRD-1", PONumber: "300"},
				{ProductCode: "PRD-2"},
				{ProductCode: "PRD-3", PONumber: "300"},
			},
			headerPOs:   []string{"400", "400"},
			wantMissing: []string{"300", "300"},
			wantUnused:  []string{"400", "400"},
		},
		{
			name:        "fully consistent",
			products:    []entity.ProductRecord{{ProductCode: "PRD-1", PONumber: "100"}},
			headerPOs:   []string{"100"},
			wantMissing: []string{},
			wantUnused:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PurchaseOrders(tt.products, tt.headerPOs)
			if !reflect.DeepEqual(got.MissingInExtracted, tt.wantMissing) {
				t.Errorf("MissingInExtracted = %v, want %v", got.MissingInExtracted, tt.wantMissing)
			}
			if !reflect.DeepEqual(got.UnusedInProducts, tt.wantUnused) {
				t.Errorf("UnusedInProducts = %v, want %v", got.UnusedInProducts, tt.wantUnused)
			}
			if want := len(tt.wantMissing) + len(tt.wantUnused); got.TotalInconsistencies != want {
				t.Errorf("TotalInconsistencies = %d, want %d", got.TotalInconsistencies, want)
			}
		})
	}
}

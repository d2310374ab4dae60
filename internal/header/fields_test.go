package header

import (
	"reflect"
	"testing"
)

func TestExtractInvoiceNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled", "Invoice Number: INV-2024-001\n", "INV-2024-001"},
		{"case insensitive", "invoice number INV-7\n", "INV-7"},
		{"absent", "no identifiers here\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text).InvoiceNumber; got != tt.want {
				t.Errorf("InvoiceNumber = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSupplier(t *testing.T) {
	text := "Some intro line\nACME GLOBAL LTD\n42 Harbor Road, Rotterdam\nInvoice Number: INV-1\n"
	facts := Extract(text)
	if facts.Supplier == nil {
		t.Fatal("supplier block not found")
	}
	if facts.Supplier.Name != "ACME GLOBAL LTD" {
		t.Errorf("Name = %q, want %q", facts.Supplier.Name, "ACME GLOBAL LTD")
	}
	if facts.Supplier.Address != "42 Harbor Road, Rotterdam" {
		t.Errorf("Address = %q, want %q", facts.Supplier.Address, "42 Harbor Road, Rotterdam")
	}

	if got := Extract("lowercase text only\n"); got.Supplier != nil {
		t.Errorf("Supplier = %+v, want nil", got.Supplier)
	}
}

// PO numbers keep first-appearance order and retain duplicates; both the
// "PO-" and "Purchase Order" spellings count.
func TestExtractPONumbers(t *testing.T) {
	text := "Refer PO-100 and Purchase Order: 200 and later PO 100 again\n"
	facts := Extract(text)
	want := []string{"100", "200", "100"}
	if !reflect.DeepEqual(facts.PONumbers, want) {
		t.Errorf("PONumbers = %v, want %v", facts.PONumbers, want)
	}
}

func TestExtractEmptyText(t *testing.T) {
	facts := Extract("")
	if facts.InvoiceNumber != "" || facts.Supplier != nil {
		t.Errorf("unexpected facts from empty text: %+v", facts)
	}
	if facts.PONumbers == nil || len(facts.PONumbers) != 0 {
		t.Errorf("PONumbers = %#v, want empty non-nil slice", facts.PONumbers)
	}
}

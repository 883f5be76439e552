package placeholder

import "testing"

func TestDeriveLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"{{amount}}", "amount"},
		{"{{amount|Total Amount}}", "Total Amount"},
		{"{{a|b|c}}", "b"},
		{"{{ customer_name }}", "customer_name"},
		{"[amount]", "amount"},
		{"[ amount ]", "amount"},
		{"{{|}}", "{{|}}"},
		{"{{name|}}", "name"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := DeriveLabel(tt.raw); got != tt.want {
				t.Errorf("DeriveLabel(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"customer_name", "Customer Name"},
		{"first-name", "First Name"},
		{"{{amount}}", "Amount"},
		{"total amount due", "Total Amount Due"},
		{"x", "X"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatLabel(tt.label); got != tt.want {
			t.Errorf("FormatLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

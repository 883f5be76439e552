package placeholder

import "testing"

func TestChanged(t *testing.T) {
	base := Index{
		{Text: "{{name}}", Label: "name", From: 6, To: 14},
		{Text: "[amount]", Label: "amount", From: 20, To: 28},
	}

	tests := []struct {
		name string
		prev Index
		next Index
		want bool
	}{
		{"both empty", nil, Index{}, false},
		{"identical", base, Index{base[0], base[1]}, false},
		{"record appended", base, append(Index{base[0], base[1]}, Record{Text: "[due]", Label: "due", From: 40, To: 45}), true},
		{"record removed", base, Index{base[0]}, true},
		{"text changed", base, Index{{Text: "{{title}}", Label: "title", From: 6, To: 15}, base[1]}, true},
		{"positions shifted", base, Index{{Text: "{{name}}", Label: "name", From: 8, To: 16}, base[1]}, true},
		{"became empty", base, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Changed(tt.prev, tt.next); got != tt.want {
				t.Errorf("Changed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChangedIgnoresLabelOnly(t *testing.T) {
	// Текст и позиции совпадают: различие в производном Label не считается изменением
	prev := Index{{Text: "{{a|b}}", Label: "b", From: 1, To: 8}}
	next := Index{{Text: "{{a|b}}", Label: "B", From: 1, To: 8}}

	if Changed(prev, next) {
		t.Error("Changed() = true for label-only difference, want false")
	}
}

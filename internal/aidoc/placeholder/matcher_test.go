package placeholder

import (
	"slices"
	"testing"
)

func collect(text string) []Token {
	return slices.Collect(Match(text))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Token
	}{
		{
			name: "no markers",
			text: "plain text without any markers",
			want: nil,
		},
		{
			name: "double brace",
			text: "Hello {{name}}!",
			want: []Token{{Raw: "{{name}}", Offset: 6, Length: 8}},
		},
		{
			name: "single bracket",
			text: "total: [amount]",
			want: []Token{{Raw: "[amount]", Offset: 7, Length: 8}},
		},
		{
			name: "mixed markers in order",
			text: "{{a}} then [b] then {{c|C}}",
			want: []Token{
				{Raw: "{{a}}", Offset: 0, Length: 5},
				{Raw: "[b]", Offset: 11, Length: 3},
				{Raw: "{{c|C}}", Offset: 20, Length: 7},
			},
		},
		{
			name: "non greedy",
			text: "{{a}} {{b}}",
			want: []Token{
				{Raw: "{{a}}", Offset: 0, Length: 5},
				{Raw: "{{b}}", Offset: 6, Length: 5},
			},
		},
		{
			name: "unclosed marker ignored",
			text: "broken {{name and [amount",
			want: nil,
		},
		{
			name: "cyrillic text offsets in runes",
			text: "Уважаемый {{имя}}!",
			want: []Token{{Raw: "{{имя}}", Offset: 10, Length: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Match() returned %d tokens, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMatchRestartable(t *testing.T) {
	seq := Match("{{a}} [b]")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if !slices.Equal(first, second) {
		t.Errorf("second iteration differs: %+v vs %+v", first, second)
	}
}

func TestIsEmpty(t *testing.T) {
	empty := []string{"[]", "{}", "{{}}", "{{ }}", "[   ]", "{{\t}}"}
	for _, raw := range empty {
		if !IsEmpty(raw) {
			t.Errorf("IsEmpty(%q) = false, want true", raw)
		}
	}

	nonEmpty := []string{"{{name}}", "[x]", "{{ a }}", "[{}]"}
	for _, raw := range nonEmpty {
		if IsEmpty(raw) {
			t.Errorf("IsEmpty(%q) = true, want false", raw)
		}
	}
}

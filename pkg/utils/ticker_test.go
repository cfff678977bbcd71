package utils

import (
	"reflect"
	"testing"
)

func TestSymbolVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{" brk.b ", []string{"BRK.B", "BRK-B"}},
		{"BF/A", []string{"BF/A", "BF-A"}},
		{"A.B/C", []string{"A.B/C", "A-B/C", "A.B-C"}},
		{"AAPL", []string{"AAPL"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := SymbolVariants(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SymbolVariants(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSymbolVariantsIdempotent(t *testing.T) {
	for _, in := range []string{"brk.b", "BF/A", "XYZ"} {
		first := SymbolVariants(in)
		second := SymbolVariants(in)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("SymbolVariants(%q) not stable: %v vs %v", in, first, second)
		}
	}
}

func TestAppendUnique(t *testing.T) {
	got := AppendUnique([]string{"A"}, "B", "A", "", "C", "B")
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AppendUnique = %v, want %v", got, want)
	}
}

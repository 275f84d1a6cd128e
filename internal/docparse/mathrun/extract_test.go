package mathrun

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Run
	}{
		{
			name: "element chain with trailing text",
			in:   "H_2SO_4 eritmasi",
			want: []Run{
				{Type: RunFormula, Value: "H_2SO_4"},
				{Type: RunText, Value: " eritmasi"},
			},
		},
		{
			name: "compound parenthesized formula is one run",
			in:   "Al_2(SO_4)_3 tuzi",
			want: []Run{
				{Type: RunFormula, Value: "Al_2(SO_4)_3"},
				{Type: RunText, Value: " tuzi"},
			},
		},
		{
			name: "leading parenthesized group is one run",
			in:   "(NH_4)_2SO_4 eritmasi",
			want: []Run{
				{Type: RunFormula, Value: "(NH_4)_2SO_4"},
				{Type: RunText, Value: " eritmasi"},
			},
		},
		{
			name: "multi-digit subscripts get braced",
			in:   "C_12H_22O_11",
			want: []Run{
				{Type: RunFormula, Value: "C_{12}H_{22}O_{11}"},
			},
		},
		{
			name: "scientific notation with dot",
			in:   "5 · 10^{23} ta molekula",
			want: []Run{
				{Type: RunText, Value: "5 "},
				{Type: RunFormula, Value: `\cdot`},
				{Type: RunText, Value: " "},
				{Type: RunFormula, Value: "10^{23}"},
				{Type: RunText, Value: " ta molekula"},
			},
		},
		{
			name: "bare acronym stays text",
			in:   "DNA molekulasi",
			want: []Run{
				{Type: RunText, Value: "DNA molekulasi"},
			},
		},
		{
			name: "acronym and formula in one line",
			in:   "DNA va H_2O",
			want: []Run{
				{Type: RunText, Value: "DNA va "},
				{Type: RunFormula, Value: "H_2O"},
			},
		},
		{
			name: "dollar math passes through untouched",
			in:   "$x^2 + y^2$ ifodani soddalashtiring",
			want: []Run{
				{Type: RunText, Value: "$x^2 + y^2$ ifodani soddalashtiring"},
			},
		},
		{
			name: "plain prose",
			in:   "oddiy savol matni",
			want: []Run{
				{Type: RunText, Value: "oddiy savol matni"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Extract(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractEmpty(t *testing.T) {
	if got := Extract(""); got != nil {
		t.Errorf("Extract(\"\") = %v, want nil", got)
	}
}

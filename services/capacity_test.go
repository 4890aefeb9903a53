package services

import "testing"

func TestParseCapacityMW(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"50MW", 50, true},
		{"c.25MW", 25, true},
		{"c 25MW", 25, true},
		{"C.40 MW", 40, true},
		{"1.45GW", 1450, true},
		{"47.5MW", 47.5, true},
		{"150MW / 300MWh", 150, true},
		{"2 GW", 2000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"garbage", 0, false},
		{"battery storage site", 0, false},
		{"TBC", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCapacityMW(tt.raw)
		if ok != tt.wantOK {
			t.Errorf("ParseCapacityMW(%q) ok = %v; want %v", tt.raw, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseCapacityMW(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestParseCapacityMWNeverManufacturesZero(t *testing.T) {
	// An absent capacity is "no value", not zero; zero only comes from an
	// explicit "0MW".
	if _, ok := ParseCapacityMW(""); ok {
		t.Error("empty input must not produce a value")
	}
	got, ok := ParseCapacityMW("0MW")
	if !ok || got != 0 {
		t.Errorf("ParseCapacityMW(\"0MW\") = %.1f, %v; want 0, true", got, ok)
	}
}

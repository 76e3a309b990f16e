package tz

import (
	"testing"
	"time"
)

func TestAllListedZonesLoad(t *testing.T) {
	for _, region := range Regions() {
		for _, zone := range Zones(region) {
			if _, err := time.LoadLocation(zone); err != nil {
				t.Errorf("zone %q does not load: %v", zone, err)
			}
		}
	}
}

func TestRegionsAreSortedAndDistinct(t *testing.T) {
	regions := Regions()
	if len(regions) == 0 {
		t.Fatal("no regions")
	}
	seen := map[string]bool{}
	for i, r := range regions {
		if seen[r] {
			t.Errorf("duplicate region %q", r)
		}
		seen[r] = true
		if i > 0 && regions[i-1] > r {
			t.Errorf("regions not sorted: %q before %q", regions[i-1], r)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Europe/Berlin", true},
		{"UTC", true},
		{"America/Indiana/Indianapolis", true}, // valid even though unlisted
		{"Mars/Olympus_Mons", false},
		{"", false},
		{"Local", false},
	}
	for _, tc := range tests {
		if got := Valid(tc.name); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsRegion(t *testing.T) {
	if !IsRegion("Europe") {
		t.Error("Europe should be a region")
	}
	if IsRegion("Europe/Berlin") {
		t.Error("a full zone name is not a region")
	}
}

package domain

import (
	"testing"
	"time"
)

func TestAgeAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"born today", now, 0},
		{"almost one", now.AddDate(0, 0, -364), 0},
		{"just over one", now.AddDate(0, 0, -366), 1},
		{"three years", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), 3},
		{"ten years", time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ageAt(&tt.dob, now)
			if got == nil {
				t.Fatal("expected an age, got nil")
			}
			if *got != tt.want {
				t.Errorf("ageAt(%v) = %d, want %d", tt.dob, *got, tt.want)
			}
		})
	}
}

func TestAgeAtNilDateOfBirth(t *testing.T) {
	if got := ageAt(nil, time.Now()); got != nil {
		t.Errorf("expected nil age without a date of birth, got %d", *got)
	}
}

func TestParseSpecies(t *testing.T) {
	tests := []struct {
		in   string
		want Species
		ok   bool
	}{
		{"dog", SpeciesDog, true},
		{"Cat", SpeciesCat, true},
		{" rabbit ", SpeciesRabbit, true},
		{"guineapig", SpeciesGuineaPig, true},
		{"guinea_pig", SpeciesGuineaPig, true},
		{"guinea pig", SpeciesGuineaPig, true},
		{"OTHER", SpeciesOther, true},
		{"dragon", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseSpecies(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSpecies(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseAccountStatus(t *testing.T) {
	if s, ok := ParseAccountStatus("inactive"); !ok || s != StatusInactive {
		t.Errorf("ParseAccountStatus(inactive) = (%q, %v)", s, ok)
	}
	if _, ok := ParseAccountStatus("suspended"); ok {
		t.Error("expected suspended to be rejected")
	}
}

package catalog

import "testing"

func TestPriceFor(t *testing.T) {
	cat := Default()
	occ, ok := cat.Occasion("home")
	if !ok {
		t.Fatal("home occasion missing")
	}

	p, ok := occ.PriceFor("6cm", "1 person")
	if !ok {
		t.Fatal("PriceFor(6cm, 1 person) not found")
	}
	if p.Current != "39.95" || p.Original != "100.00" {
		t.Fatalf("PriceFor(6cm, 1 person) = %+v, want 39.95/100.00", p)
	}

	if _, ok := occ.PriceFor("4cm", "2 people (connected)"); ok {
		t.Fatal("2 people (connected) should not be priced at 4cm")
	}
	if _, ok := occ.PriceFor("7cm", "1 person"); ok {
		t.Fatal("unknown size should not resolve a price")
	}
}

func TestResolveStyleFallback(t *testing.T) {
	cat := Default()
	occ, _ := cat.Occasion("home")

	tests := []struct {
		name    string
		size    string
		styleID string
		wantID  string
	}{
		{"available combination is kept", "6cm", "2 people (connected)", "2 people (connected)"},
		{"unpriced at size falls back to first available", "4cm", "2 people (connected)", "1 person"},
		{"10cm keeps 2 people", "10cm", "2 people", "2 people"},
		{"10cm drops pet styles", "10cm", "1 pet", "1 person"},
		{"unknown style falls back", "6cm", "3 people", "1 person"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := occ.ResolveStyle(tc.size, tc.styleID)
			if !ok {
				t.Fatalf("ResolveStyle(%q, %q) found nothing", tc.size, tc.styleID)
			}
			if got.ID != tc.wantID {
				t.Fatalf("ResolveStyle(%q, %q) = %q, want %q", tc.size, tc.styleID, got.ID, tc.wantID)
			}
		})
	}
}

func TestFirstAvailable(t *testing.T) {
	cat := Default()
	occ, _ := cat.Occasion("home")
	s, ok := occ.FirstAvailable("10cm")
	if !ok {
		t.Fatal("FirstAvailable(10cm) found nothing")
	}
	if s.ID != "1 person" {
		t.Fatalf("FirstAvailable(10cm) = %q, want %q", s.ID, "1 person")
	}
}

func TestDefaultSizeCoversAllStyles(t *testing.T) {
	cat := Default()
	for _, occ := range cat.Occasions() {
		for _, s := range occ.Styles {
			if _, ok := occ.PriceFor(DefaultSize, s.ID); !ok {
				t.Errorf("style %q of %q has no price at the default size", s.ID, occ.ID)
			}
		}
	}
}

func TestCompositeStyles(t *testing.T) {
	cat := Default()
	occ, _ := cat.Occasion("wedding")
	cake, ok := occ.Style("Cake")
	if !ok {
		t.Fatal("Cake style missing")
	}
	if !cake.Composite {
		t.Fatal("Cake should be composite")
	}
	if len(cake.Slots) != 2 {
		t.Fatalf("Cake slots = %d, want 2", len(cake.Slots))
	}
	for _, s := range occ.Styles {
		if s.ID != "Cake" && s.Composite {
			t.Errorf("style %q should not be composite", s.ID)
		}
	}
}

func TestValidSize(t *testing.T) {
	for _, s := range Sizes {
		if !ValidSize(s.ID) {
			t.Errorf("ValidSize(%q) = false", s.ID)
		}
	}
	if ValidSize("12cm") {
		t.Error("ValidSize(12cm) = true, want false")
	}
}

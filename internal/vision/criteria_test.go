package vision

import (
	"strings"
	"testing"

	"server/internal/catalog"
)

func TestCriteriaFor(t *testing.T) {
	tests := []struct {
		styleID string
		role    catalog.SlotRole
		want    CriteriaKind
	}{
		{"1 person", catalog.RolePerson, CriteriaSinglePerson},
		{"2 people", catalog.RolePerson, CriteriaExactTwoPeople},
		{"2 people (connected)", catalog.RolePerson, CriteriaExactTwoPeople},
		{"Couple (holding hands)", catalog.RolePerson, CriteriaExactTwoPeople},
		{"1 pet", catalog.RolePet, CriteriaSingleAnimal},
		{"Non-human figure", catalog.RoleObject, CriteriaObjectOnly},
		{"1 person + 1 pet", catalog.RolePerson, CriteriaSinglePerson},
		{"1 person + 1 pet", catalog.RolePet, CriteriaSingleAnimal},
		{"Groom", catalog.RolePerson, CriteriaSinglePerson},
		{"Groom + Bride (2 photos)", catalog.RolePerson, CriteriaSinglePerson},
		{"Cake", catalog.RolePerson, CriteriaSinglePerson},
		{"unknown style", catalog.RolePerson, CriteriaSinglePerson},
	}
	for _, tc := range tests {
		t.Run(tc.styleID+"/"+string(tc.role), func(t *testing.T) {
			if got := CriteriaFor(tc.styleID, tc.role); got != tc.want {
				t.Fatalf("CriteriaFor(%q, %q) = %v, want %v", tc.styleID, tc.role, got, tc.want)
			}
		})
	}
}

func TestLanguageForLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"es", "Spanish"},
		{"de", "German"},
		{"fr", "French"},
		{"id", "Indonesian"},
		{"en", "English"},
		{"pt", "English"},
		{"", "English"},
	}
	for _, tc := range tests {
		if got := LanguageForLocale(tc.locale); got != tc.want {
			t.Errorf("LanguageForLocale(%q) = %q, want %q", tc.locale, got, tc.want)
		}
	}
}

func TestBuildValidationInstruction(t *testing.T) {
	got := BuildValidationInstruction("1 pet", catalog.RolePet, "German")
	if !strings.Contains(got, "exactly ONE animal") {
		t.Errorf("instruction missing animal criteria: %q", got)
	}
	if !strings.Contains(got, "in German") {
		t.Errorf("instruction missing language: %q", got)
	}
	if !strings.Contains(got, `"isValid"`) {
		t.Errorf("instruction missing JSON contract: %q", got)
	}

	got = BuildValidationInstruction("1 person", catalog.RolePerson, "")
	if !strings.Contains(got, "in English") {
		t.Errorf("empty language should default to English: %q", got)
	}
}

func TestBuildGenerationInstruction(t *testing.T) {
	person := BuildGenerationInstruction("1 person", catalog.RolePerson)
	if !strings.Contains(person, "STANDING 'A' pose") {
		t.Errorf("person instruction missing posture rule")
	}
	if strings.Contains(person, "warm embrace") {
		t.Errorf("plain style should carry no composition rule")
	}
	if !strings.Contains(person, "3D Chibi Avatar") || !strings.Contains(person, "ADDITIONAL RENDERING RULES") {
		t.Errorf("instruction missing fixed aesthetic sections")
	}

	pet := BuildGenerationInstruction("1 pet", catalog.RolePet)
	if !strings.Contains(pet, "SITTING posture") {
		t.Errorf("pet instruction missing sitting rule")
	}

	connected := BuildGenerationInstruction("2 people (connected)", catalog.RolePerson)
	if !strings.Contains(connected, "warm embrace") {
		t.Errorf("connected instruction missing embrace rule")
	}

	cake := BuildGenerationInstruction("Cake", catalog.RolePerson)
	if !strings.Contains(cake, "wedding cake") {
		t.Errorf("cake instruction missing cake rule")
	}
	if !strings.Contains(cake, "first image is the groom") {
		t.Errorf("cake instruction missing image ordering")
	}
}

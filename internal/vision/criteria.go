package vision

import (
	"fmt"

	"server/internal/catalog"
)

// CriteriaKind enumerates the content rules a style can impose on an upload.
// Keeping the policy as data keeps it testable apart from the network call.
type CriteriaKind int

const (
	// CriteriaSinglePerson requires exactly one clear person in frame.
	CriteriaSinglePerson CriteriaKind = iota
	// CriteriaExactTwoPeople requires exactly two people in frame.
	CriteriaExactTwoPeople
	// CriteriaSingleAnimal requires exactly one animal and no humans.
	CriteriaSingleAnimal
	// CriteriaObjectOnly requires a toy or object, never a real person or animal.
	CriteriaObjectOnly
	// CriteriaRoleConditional applies the person rule or the animal rule
	// depending on which slot is being validated.
	CriteriaRoleConditional
)

// styleCriteria maps style identifiers to their validation rule. Styles not
// listed here fall back to the single-person rule.
var styleCriteria = map[string]CriteriaKind{
	"1 person":                 CriteriaSinglePerson,
	"2 people":                 CriteriaExactTwoPeople,
	"2 people (connected)":     CriteriaExactTwoPeople,
	"Couple (holding hands)":   CriteriaExactTwoPeople,
	"1 pet":                    CriteriaSingleAnimal,
	"Non-human figure":         CriteriaObjectOnly,
	"1 person + 1 pet":         CriteriaRoleConditional,
	"Groom":                    CriteriaSinglePerson,
	"Bride":                    CriteriaSinglePerson,
	"Groom + Bride (2 photos)": CriteriaSinglePerson,
	"Cake":                     CriteriaSinglePerson,
}

// CriteriaFor resolves the validation rule for a style and slot role.
func CriteriaFor(styleID string, role catalog.SlotRole) CriteriaKind {
	kind, ok := styleCriteria[styleID]
	if !ok {
		kind = CriteriaSinglePerson
	}
	if kind == CriteriaRoleConditional {
		if role == catalog.RolePet {
			return CriteriaSingleAnimal
		}
		return CriteriaSinglePerson
	}
	return kind
}

func criteriaText(kind CriteriaKind) string {
	switch kind {
	case CriteriaExactTwoPeople:
		return "The image must contain exactly TWO people together in the same frame. If there is only one or more than two people, it is invalid."
	case CriteriaSingleAnimal:
		return "The image must contain exactly ONE animal (dog, cat, etc.). If it's a human, a car, or any non-animal object, it is invalid."
	case CriteriaObjectOnly:
		return "The image must contain a TOY, FIGURINE, or OBJECT. It MUST NOT contain a real human or a real animal."
	default:
		return "The image must contain exactly ONE clear person. If there are zero or multiple people, it is invalid."
	}
}

// LanguageForLocale maps a negotiated locale to the language the model
// should write rejection messages in.
func LanguageForLocale(locale string) string {
	switch locale {
	case "es":
		return "Spanish"
	case "de":
		return "German"
	case "fr":
		return "French"
	case "id":
		return "Indonesian"
	default:
		return "English"
	}
}

// BuildValidationInstruction composes the full instruction sent with a
// validation request. language selects the language of the warning message
// the model writes when the image is rejected.
func BuildValidationInstruction(styleID string, role catalog.SlotRole, language string) string {
	if language == "" {
		language = "English"
	}
	return fmt.Sprintf(`Analyze this image for a 3D figure customization service.
Criteria: %s
Also check for clarity: If the image is extremely blurry, dark, or the subject is too small to see details, it is invalid.

Respond strictly in JSON format with:
{
  "isValid": boolean,
  "message": "A short, friendly warning message in %s explaining what is wrong if isValid is false, otherwise empty string."
}`, criteriaText(CriteriaFor(styleID, role)), language)
}

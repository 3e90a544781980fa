package vision

import (
	"strings"

	"server/internal/catalog"
)

// systemPrompt is the fixed aesthetic specification applied to every
// generation request, independent of style and role.
const systemPrompt = `You are an expert AI character designer. Your task is to transform a user's photo into a 3D Chibi Avatar that matches the provided aesthetic and specific posture rules.

STRICT COMPOSITION RULES:
1. FULL BODY VIEW: The generated image MUST ALWAYS show the entire character from head to toe (or ears to paws). Do not crop any part of the figure, even if the input image is just a face.
2. POSTURE RULES:
   - FOR HUMANS: Standing straight, facing directly forward, with arms down and held slightly away from the torso in a relaxed "A" pose.
   - FOR PETS (Dogs/Cats/Animals): The animal MUST be in a SITTING posture on its haunches, facing directly forward, with front paws on the ground. It should look like a cute sitting toy figurine.
   - FOR COMBINATIONS (Person + Pet): The human stands in the "A" pose and the pet sits next to their feet in the sitting posture.
3. BACKGROUND: The background MUST ALWAYS be a solid, flat, pure white (#FFFFFF). No floor shadows, no gradients, no scenery.

STYLE & CHARACTER DETAILS:
4. AESTHETIC: Use the 3D soft-matte vinyl toy aesthetic. Smooth skin/fur, large expressive eyes with specific highlights, and soft studio lighting.
5. USER-BASED FEATURES: Extract and preserve the following from the USER'S UPLOADED PHOTO:
   - Features: Map the user's facial traits or animal breed characteristics onto the chibi head.
   - Color: Use the exact hair/fur color and markings from the photo.
   - Clothing: If the subject in the photo is wearing clothes (human or pet), the chibi must wear the same type, color, and style of clothing.
6. SHOES: Match the footwear style and color from the user's photo for humans.
7. TEETH: Match the expression of the user's photo. If the user's teeth are visible in the uploaded photo (smiling with teeth), the generated character MUST also have visible teeth in a matching stylized chibi way. If the mouth is closed, keep it closed.

FINAL OUTPUT: Provide only the high-quality 3D render on a white background.`

// renderingRules suppress detail the 3D printing process cannot reproduce.
const renderingRules = `ADDITIONAL RENDERING RULES (APPLY TO ALL OUTPUTS):
FOR PEOPLE:
- Clothing must NOT contain any logos, symbols, patterns, labels, written text or prints.
- Skin must NOT contain freckles.
- Elderly people must NOT have detailed wrinkles. The face must look smooth, stylized and youthful but still elderly in proportions (hair gray allowed, but skin smooth).
- Keep the human as a stylized figure with simplified smooth surfaces.
- HAIR: convert tight curls into larger, rounded clumps with minimal separation. Use smooth, soft wave blocks instead of individual ringlets; avoid stray strands and deep grooves so the hair prints as a single volume.
- FACE SIMPLIFICATION: render the mouth as a minimal curved line without teeth unless they are clearly visible in the source. Keep lips flat-toned with no shading.
- EYES: keep the iris/pupil flat and simple with 1-2 flat colors and a single small highlight. Avoid gradients, multiple rings, eyeliner, or detailed lashes.

FOR PETS / ANIMALS:
- NO visible fur texture.
- NO visible whiskers.
- Surface must be smooth, toy-like, with no fine details like hair strands.

GENERAL:
- Use flat shading with very few color steps; avoid high-frequency gradients or texture on skin, hair, or clothing.
- The result is used for a 3D model that does NOT support fine details. Avoid micro-details. Prefer smooth plastic toy-like finish.
- Maintain the same pose logic already implemented (standing for humans, sitting rules for pets).
- Keep everything else unchanged.`

func postureInstruction(role catalog.SlotRole) string {
	if role == catalog.RolePet {
		return "The subject is a PET. Strictly follow the SITTING posture rules for animals."
	}
	return "The subject is a PERSON. Strictly follow the STANDING 'A' pose posture rules for humans."
}

// compositionInstruction returns the style-specific composition rule, empty
// for styles that render each photo independently.
func compositionInstruction(styleID string) string {
	switch styleID {
	case "2 people (connected)", "Couple (holding hands)":
		return "The image contains exactly TWO PEOPLE. Generate ONE image that keeps BOTH people together in a warm embrace/hug pose while still respecting the chibi aesthetic. Show the full bodies of both characters, standing close and connected. Do NOT separate them or crop either person."
	case "Cake":
		return "Use BOTH images to create the couple: the first image is the groom and the second image is the bride. Generate ONE image with BOTH people standing together on top of a wedding cake base. The cake should be a low, wide, smooth tier (not tall) so the couple remains the tallest element. The cake is a simple white wedding cake with minimal decoration. Keep both full bodies visible and proportionate."
	default:
		return ""
	}
}

// BuildGenerationInstruction composes the full instruction for a generation
// request: posture rule, optional composition rule, then the fixed aesthetic
// and rendering rules.
func BuildGenerationInstruction(styleID string, role catalog.SlotRole) string {
	var b strings.Builder
	b.WriteString(postureInstruction(role))
	b.WriteString("\n")
	if comp := compositionInstruction(styleID); comp != "" {
		b.WriteString(comp)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")
	b.WriteString(renderingRules)
	return b.String()
}

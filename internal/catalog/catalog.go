package catalog

// SlotRole describes what kind of subject a photo slot expects. It drives both
// validation criteria and generation posture rules.
type SlotRole string

const (
	RolePerson SlotRole = "person"
	RolePet    SlotRole = "pet"
	RoleObject SlotRole = "object"
)

// SlotSpec is one required photo input declared by a style.
type SlotSpec struct {
	Role  SlotRole `json:"role"`
	Label string   `json:"label"`
}

// Style is a catalog entry: a figure composition the shopper can pick.
type Style struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Icon  string     `json:"icon,omitempty"`
	Slots []SlotSpec `json:"slots"`

	// Composite styles merge two photos into one combined figure instead of
	// producing one preview per slot.
	Composite bool `json:"composite,omitempty"`
}

// Price holds display prices as decimal strings, matching the storefront copy.
type Price struct {
	Current  string `json:"current"`
	Original string `json:"original"`
}

// PriceTable maps size -> style id -> price. Absence of a style at a size
// means the style is unavailable there.
type PriceTable map[string]map[string]Price

// Size is a selectable figure height.
type Size struct {
	ID     string `json:"id"`
	Inches string `json:"inches"`
}

// Sizes lists the selectable figure heights in display order.
var Sizes = []Size{
	{ID: "4cm", Inches: "1.57 in"},
	{ID: "6cm", Inches: "2.36 in"},
	{ID: "8cm", Inches: "3.15 in"},
	{ID: "10cm", Inches: "3.93 in"},
}

// DefaultSize is preselected when a session starts.
const DefaultSize = "6cm"

// Occasion groups the styles and pricing shown on one customizer page.
type Occasion struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Styles  []Style    `json:"styles"`
	Pricing PriceTable `json:"pricing"`
}

// Style returns the style with the given id, or false when the occasion does
// not offer it.
func (o *Occasion) Style(id string) (Style, bool) {
	for _, s := range o.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

// PriceFor looks up the price of a style at a size.
func (o *Occasion) PriceFor(size, styleID string) (Price, bool) {
	table, ok := o.Pricing[size]
	if !ok {
		return Price{}, false
	}
	p, ok := table[styleID]
	return p, ok
}

// FirstAvailable returns the first style (in display order) that has a price
// entry at the given size.
func (o *Occasion) FirstAvailable(size string) (Style, bool) {
	for _, s := range o.Styles {
		if _, ok := o.PriceFor(size, s.ID); ok {
			return s, true
		}
	}
	return Style{}, false
}

// ResolveStyle returns styleID when the style/size combination is priced, and
// otherwise falls back to the first style still available at that size.
func (o *Occasion) ResolveStyle(size, styleID string) (Style, bool) {
	if s, ok := o.Style(styleID); ok {
		if _, priced := o.PriceFor(size, styleID); priced {
			return s, true
		}
	}
	return o.FirstAvailable(size)
}

// Catalog is the full static style/pricing configuration for the service.
type Catalog struct {
	occasions []Occasion
}

// New builds a catalog from the given occasions, preserving order.
func New(occasions ...Occasion) *Catalog {
	return &Catalog{occasions: occasions}
}

// Occasions returns all occasions in display order.
func (c *Catalog) Occasions() []Occasion {
	return c.occasions
}

// Occasion returns the occasion with the given id.
func (c *Catalog) Occasion(id string) (*Occasion, bool) {
	for i := range c.occasions {
		if c.occasions[i].ID == id {
			return &c.occasions[i], true
		}
	}
	return nil, false
}

// ValidSize reports whether id is one of the selectable sizes.
func ValidSize(id string) bool {
	for _, s := range Sizes {
		if s.ID == id {
			return true
		}
	}
	return false
}

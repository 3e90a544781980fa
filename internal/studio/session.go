package studio

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"server/internal/catalog"
)

// CombinedResult is the single merged preview produced by composite styles
// (both photos rendered into one figure). Readiness for those styles derives
// from this record, not from the individual slots.
type CombinedResult struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Status   Status `json:"status"`
}

// Session holds the transient customizer state for one shopper: the selected
// occasion, size and style, and one slot per photo the style requires.
// Nothing here is ever persisted.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	occasion string
	size     string
	style    catalog.Style
	slots    []*Slot
	combined CombinedResult

	createdAt    time.Time
	lastActivity time.Time
}

func newSession(occasionID string, style catalog.Style, size string) *Session {
	now := time.Now()
	s := &Session{
		id:           uuid.New(),
		occasion:     occasionID,
		size:         size,
		createdAt:    now,
		lastActivity: now,
	}
	s.applyStyle(style)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// applyStyle swaps the active style and rebuilds the slot list from scratch.
// Previous uploads and results never leak into the new slots. Caller holds mu.
func (s *Session) applyStyle(style catalog.Style) {
	s.style = style
	s.slots = make([]*Slot, len(style.Slots))
	for i, spec := range style.Slots {
		s.slots[i] = newSlot(i, spec)
	}
	s.combined = CombinedResult{Status: StatusIdle}
}

func (s *Session) slot(id int) (*Slot, bool) {
	if id < 0 || id >= len(s.slots) {
		return nil, false
	}
	return s.slots[id], true
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}

// ready reports aggregate readiness for the add-to-cart gate: every slot
// successful, except composite styles where only the combined result counts.
// Caller holds mu.
func (s *Session) ready() bool {
	if s.style.Composite {
		return s.combined.Status == StatusSuccess && s.combined.ImageURL != ""
	}
	if len(s.slots) == 0 {
		return false
	}
	for _, slot := range s.slots {
		if slot.Result.Status != StatusSuccess {
			return false
		}
	}
	return true
}

// View is the JSON projection of a session returned to the front-end.
type View struct {
	ID       string         `json:"id"`
	Occasion string         `json:"occasion"`
	Size     string         `json:"size"`
	StyleID  string         `json:"styleId"`
	Price    *catalog.Price `json:"price,omitempty"`
	Slots    []SlotView     `json:"slots"`
	Combined CombinedResult `json:"combined"`
	Ready    bool           `json:"ready"`

	// Warning carries a validation rejection message to surface as a modal.
	Warning string `json:"warning,omitempty"`
}

// SlotView is the JSON projection of one slot.
type SlotView struct {
	ID              int              `json:"id"`
	Role            catalog.SlotRole `json:"role"`
	Label           string           `json:"label"`
	HasUpload       bool             `json:"hasUpload"`
	Result          GenerationResult `json:"result"`
	ValidationError string           `json:"validationError,omitempty"`
}

// view builds the projection. Caller holds mu.
func (s *Session) view(price *catalog.Price, warning string) View {
	slots := make([]SlotView, len(s.slots))
	for i, slot := range s.slots {
		slots[i] = SlotView{
			ID:              slot.ID,
			Role:            slot.Role,
			Label:           slot.Label,
			HasUpload:       slot.HasUpload(),
			Result:          slot.Result,
			ValidationError: slot.ValidationError,
		}
	}
	return View{
		ID:       s.id.String(),
		Occasion: s.occasion,
		Size:     s.size,
		StyleID:  s.style.ID,
		Price:    price,
		Slots:    slots,
		Combined: s.combined,
		Ready:    s.ready(),
		Warning:  warning,
	}
}

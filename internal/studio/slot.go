package studio

import (
	"errors"

	"server/internal/catalog"
)

// Status is the lifecycle state of a slot's generation result.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var (
	// ErrUnknownSlot indicates the slot id is outside the active style's slot list.
	ErrUnknownSlot = errors.New("studio: unknown slot")
	// ErrNoUpload indicates generation was requested before a photo was uploaded.
	ErrNoUpload = errors.New("studio: no photo uploaded for slot")
	// ErrSlotBusy indicates a generation is already in flight for the slot.
	ErrSlotBusy = errors.New("studio: generation already in progress")
	// ErrSlotComplete indicates the slot already holds a result; it must be
	// reloaded before generating again.
	ErrSlotComplete = errors.New("studio: slot already generated; reload it first")
)

// GenerationResult is the outcome of the generation step for one slot.
// Status success implies ImageURL holds the latest successful generation.
type GenerationResult struct {
	ImageURL     string `json:"imageUrl"`
	OriginalURL  string `json:"originalUrl"`
	Status       Status `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Slot is one required photo input for the selected style. Slots live only
// for the current preview session and are rebuilt whenever the style changes.
type Slot struct {
	ID    int              `json:"id"`
	Role  catalog.SlotRole `json:"role"`
	Label string           `json:"label"`

	// upload payload; kept across a reload so regeneration does not require
	// re-uploading the photo.
	userImage     []byte
	userImageMIME string

	Result          GenerationResult `json:"result"`
	ValidationError string           `json:"validationError,omitempty"`
}

func newSlot(id int, spec catalog.SlotSpec) *Slot {
	return &Slot{
		ID:     id,
		Role:   spec.Role,
		Label:  spec.Label,
		Result: GenerationResult{Status: StatusIdle},
	}
}

// setUpload stores a new photo and resets the slot to idle. A re-upload
// replaces the previous photo and clears any stale validation warning.
func (s *Slot) setUpload(data []byte, mime string) {
	s.userImage = data
	s.userImageMIME = mime
	s.Result.Status = StatusIdle
	s.ValidationError = ""
}

// beginGenerate transitions the slot into loading. Generation is only
// permitted from idle and error; a slot already loading rejects the request
// so an in-flight call is never doubled up.
func (s *Slot) beginGenerate() error {
	if len(s.userImage) == 0 {
		return ErrNoUpload
	}
	switch s.Result.Status {
	case StatusLoading:
		return ErrSlotBusy
	case StatusSuccess:
		return ErrSlotComplete
	}
	s.Result.Status = StatusLoading
	s.ValidationError = ""
	return nil
}

// rejectValidation returns the slot to idle with the validator's message.
// A content rejection is user-recoverable, not a system fault.
func (s *Slot) rejectValidation(message string) {
	s.Result.Status = StatusIdle
	s.ValidationError = message
}

// succeed records a finished generation.
func (s *Slot) succeed(imageURL, originalURL string) {
	s.Result = GenerationResult{
		ImageURL:    imageURL,
		OriginalURL: originalURL,
		Status:      StatusSuccess,
	}
}

// fail records a generation failure. There is no automatic recovery; the
// shopper re-triggers generation manually.
func (s *Slot) fail(message string) {
	s.Result.Status = StatusError
	s.Result.ErrorMessage = message
}

// reset returns a successful slot to idle, clearing the result but keeping
// the uploaded photo.
func (s *Slot) reset() {
	s.Result = GenerationResult{Status: StatusIdle}
	s.ValidationError = ""
}

// HasUpload reports whether a photo has been uploaded for this slot.
func (s *Slot) HasUpload() bool {
	return len(s.userImage) > 0
}

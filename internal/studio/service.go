package studio

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"

	"server/internal/catalog"
	"server/internal/infra"
	"server/internal/vision"
)

var (
	// ErrSessionNotFound indicates the session id is unknown or expired.
	ErrSessionNotFound = errors.New("studio: session not found")
	// ErrUnknownOccasion indicates the requested occasion is not in the catalog.
	ErrUnknownOccasion = errors.New("studio: unknown occasion")
	// ErrUnknownSize indicates the requested size is not selectable.
	ErrUnknownSize = errors.New("studio: unknown size")
	// ErrCompositeStyle indicates a per-slot generation was requested for a
	// style that renders both photos into one combined figure.
	ErrCompositeStyle = errors.New("studio: composite style requires the combined generation flow")
	// ErrNotComposite is the inverse: the combined flow only applies to
	// composite styles.
	ErrNotComposite = errors.New("studio: style does not use the combined generation flow")
)

// VisionClient is the slice of the vision client the studio needs; tests
// substitute spies to pin down call ordering.
type VisionClient interface {
	Validate(ctx context.Context, image []byte, role catalog.SlotRole, styleID, language string) (vision.Verdict, error)
	Generate(ctx context.Context, req vision.GenerateRequest) (*vision.Artifact, error)
}

// KeyPrompter is an optional host-provided affordance for fixing API
// credentials. It is only ever invoked as a best-effort recovery nudge after
// a credential-class failure; its own failures are logged and swallowed.
type KeyPrompter interface {
	PromptKeySelection(ctx context.Context) error
}

// Service orchestrates the customizer flow: catalog selection, uploads, and
// the validate-then-generate pipeline per slot.
type Service struct {
	catalog  *catalog.Catalog
	vision   VisionClient
	sessions *Manager
	logger   *infra.Logger
	keys     KeyPrompter
}

// NewService wires the orchestrator. keys may be nil.
func NewService(cat *catalog.Catalog, client VisionClient, sessions *Manager, logger *infra.Logger, keys KeyPrompter) *Service {
	return &Service{catalog: cat, vision: client, sessions: sessions, logger: logger, keys: keys}
}

// Create starts a preview session for an occasion, preselecting the default
// size and the first style available at it.
func (svc *Service) Create(occasionID string) (View, error) {
	occ, ok := svc.catalog.Occasion(occasionID)
	if !ok {
		return View{}, ErrUnknownOccasion
	}
	style, ok := occ.FirstAvailable(catalog.DefaultSize)
	if !ok {
		return View{}, ErrUnknownOccasion
	}
	session := newSession(occasionID, style, catalog.DefaultSize)
	svc.sessions.add(session)

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(svc.price(session), ""), nil
}

// Get returns the current session view.
func (svc *Service) Get(id uuid.UUID) (View, error) {
	session, ok := svc.sessions.get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()
	return session.view(svc.price(session), ""), nil
}

// Select switches size and/or style. The slot list is rebuilt from scratch:
// uploads and results never carry over. When the requested style has no
// price entry at the size, the first style still available there is selected
// instead.
func (svc *Service) Select(id uuid.UUID, size, styleID string) (View, error) {
	session, ok := svc.sessions.get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	occ, ok := svc.catalog.Occasion(session.occasion)
	if !ok {
		return View{}, ErrUnknownOccasion
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	if size == "" {
		size = session.size
	}
	if !catalog.ValidSize(size) {
		return View{}, ErrUnknownSize
	}
	if styleID == "" {
		styleID = session.style.ID
	}
	style, ok := occ.ResolveStyle(size, styleID)
	if !ok {
		return View{}, ErrUnknownSize
	}
	session.size = size
	session.applyStyle(style)
	return session.view(svc.price(session), ""), nil
}

// Upload stores a photo for a slot and resets the slot to idle. Ceiling
// checks run later, at generation time, against this original payload.
func (svc *Service) Upload(id uuid.UUID, slotID int, data []byte, mime string) (View, error) {
	session, ok := svc.sessions.get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	slot, ok := session.slot(slotID)
	if !ok {
		return View{}, ErrUnknownSlot
	}
	slot.setUpload(data, mime)
	return session.view(svc.price(session), ""), nil
}

// Reload clears a slot's result so it can be regenerated, keeping the
// uploaded photo. A slot with a generation in flight cannot be reloaded.
func (svc *Service) Reload(id uuid.UUID, slotID int) (View, error) {
	session, ok := svc.sessions.get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()

	slot, ok := session.slot(slotID)
	if !ok {
		return View{}, ErrUnknownSlot
	}
	if slot.Result.Status == StatusLoading {
		return View{}, ErrSlotBusy
	}
	slot.reset()
	return session.view(svc.price(session), ""), nil
}

// GenerateSlot runs the validate-then-generate pipeline for one slot.
// Validation strictly precedes generation; a rejected photo returns the slot
// to idle with a warning, and generation failures land the slot in error.
// Slots are independent: concurrent calls for different slots do not block
// each other during the network phase.
func (svc *Service) GenerateSlot(ctx context.Context, id uuid.UUID, slotID int, locale string) (View, error) {
	session, ok := svc.sessions.get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}

	session.mu.Lock()
	if session.style.Composite {
		session.mu.Unlock()
		return View{}, ErrCompositeStyle
	}
	slot, ok := session.slot(slotID)
	if !ok {
		session.mu.Unlock()
		return View{}, ErrUnknownSlot
	}
	if err := slot.beginGenerate(); err != nil {
		session.mu.Unlock()
		return View{}, err
	}
	session.touch()
	image := slot.userImage
	mime := slot.userImageMIME
	role := slot.Role
	styleID := session.style.ID
	session.mu.Unlock()

	verdict, err := svc.vision.Validate(ctx, image, role, styleID, vision.LanguageForLocale(locale))
	if err != nil {
		return svc.finishWithError(ctx, session, slot, err), nil
	}
	if !verdict.IsValid {
		session.mu.Lock()
		defer session.mu.Unlock()
		if session.slotCurrent(slot) {
			slot.rejectValidation(verdict.Message)
		}
		return session.view(svc.price(session), verdict.Message), nil
	}

	artifact, err := svc.vision.Generate(ctx, vision.GenerateRequest{Image: image, Role: role, StyleID: styleID})
	if err != nil {
		return svc.finishWithError(ctx, session, slot, err), nil
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.slotCurrent(slot) {
		slot.succeed(artifact.DataURL(), dataURL(mime, image))
	}
	return session.view(svc.price(session), ""), nil
}

// GenerateCombined runs the composite flow: validate both photos in slot
// order, then issue one generation that merges them into a single figure.
func (svc *Service) GenerateCombined(ctx context.Context, id uuid.UUID, locale string) (View, error) {
	session, ok := svc.sessions.get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}

	session.mu.Lock()
	if !session.style.Composite {
		session.mu.Unlock()
		return View{}, ErrNotComposite
	}
	if session.combined.Status == StatusLoading {
		session.mu.Unlock()
		return View{}, ErrSlotBusy
	}
	if len(session.slots) != 2 || !session.slots[0].HasUpload() || !session.slots[1].HasUpload() {
		view := session.view(svc.price(session), "Please upload both photos before generating the preview.")
		session.mu.Unlock()
		return view, nil
	}
	session.touch()
	first, second := session.slots[0], session.slots[1]
	for _, slot := range session.slots {
		slot.Result.Status = StatusLoading
		slot.ValidationError = ""
	}
	session.combined.Status = StatusLoading
	firstImage, secondImage := first.userImage, second.userImage
	styleID := session.style.ID
	language := vision.LanguageForLocale(locale)
	session.mu.Unlock()

	for _, pair := range []struct {
		slot  *Slot
		image []byte
	}{{first, firstImage}, {second, secondImage}} {
		verdict, err := svc.vision.Validate(ctx, pair.image, pair.slot.Role, styleID, language)
		if err != nil {
			return svc.finishCombinedError(ctx, session, first, err), nil
		}
		if !verdict.IsValid {
			session.mu.Lock()
			defer session.mu.Unlock()
			if session.slotCurrent(pair.slot) {
				pair.slot.rejectValidation(verdict.Message)
				for _, other := range session.slots {
					if other != pair.slot && other.Result.Status == StatusLoading {
						other.Result.Status = StatusIdle
					}
				}
				session.combined.Status = StatusIdle
			}
			return session.view(svc.price(session), verdict.Message), nil
		}
	}

	artifact, err := svc.vision.Generate(ctx, vision.GenerateRequest{
		Image:     firstImage,
		Secondary: secondImage,
		Role:      first.Role,
		StyleID:   styleID,
	})
	if err != nil {
		return svc.finishCombinedError(ctx, session, first, err), nil
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.slotCurrent(first) {
		session.combined = CombinedResult{ImageURL: artifact.DataURL(), Status: StatusSuccess}
		for _, slot := range session.slots {
			slot.reset()
		}
	}
	return session.view(svc.price(session), ""), nil
}

// slotCurrent reports whether slot still belongs to the session; a style
// switch during a network call replaces the slot list, and stale results
// must be dropped rather than applied to the new slots. Caller holds mu.
func (s *Session) slotCurrent(slot *Slot) bool {
	if slot.ID < 0 || slot.ID >= len(s.slots) {
		return false
	}
	return s.slots[slot.ID] == slot
}

func (svc *Service) finishWithError(ctx context.Context, session *Session, slot *Slot, err error) View {
	svc.recoverNudge(ctx, err)
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.slotCurrent(slot) {
		slot.fail(userMessage(err))
	}
	return session.view(svc.price(session), "")
}

func (svc *Service) finishCombinedError(ctx context.Context, session *Session, first *Slot, err error) View {
	svc.recoverNudge(ctx, err)
	session.mu.Lock()
	defer session.mu.Unlock()
	// A style switch mid-flight rebuilt the slots; the failure belongs to the
	// discarded attempt, not the fresh combined record.
	if session.slotCurrent(first) {
		session.combined.Status = StatusError
		for _, slot := range session.slots {
			if slot.Result.Status == StatusLoading {
				slot.fail(userMessage(err))
			}
		}
	}
	return session.view(svc.price(session), "")
}

// recoverNudge invokes the host key-selection affordance on credential-class
// failures. Best effort only: errors are logged, never propagated.
func (svc *Service) recoverNudge(ctx context.Context, err error) {
	if svc.keys == nil {
		return
	}
	if !errors.Is(err, vision.ErrMissingAPIKey) && !errors.Is(err, vision.ErrCredentialRejected) {
		return
	}
	if promptErr := svc.keys.PromptKeySelection(ctx); promptErr != nil {
		svc.logger.Warn().Err(promptErr).Msg("studio: key selection prompt failed")
	}
}

func (svc *Service) price(session *Session) *catalog.Price {
	occ, ok := svc.catalog.Occasion(session.occasion)
	if !ok {
		return nil
	}
	if p, ok := occ.PriceFor(session.size, session.style.ID); ok {
		return &p
	}
	return nil
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func dataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

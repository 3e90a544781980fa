package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/catalog"
	"server/internal/imaging"
	"server/internal/infra"
)

// ErrMissingAPIKey indicates the client was configured without credentials.
// It is returned before any network attempt.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// ErrNoImage indicates the generation call succeeded but the response carried
// no usable image payload.
var ErrNoImage = errors.New("gemini: no image was generated")

// ErrCredentialRejected indicates the remote service rejected the configured
// credential (invalid key, or the model lookup failed with the not-found
// signature Gemini uses for bad keys). Callers may offer a key-selection
// recovery flow on this error.
var ErrCredentialRejected = errors.New("gemini: credential rejected")

// Options configures the Gemini vision client.
type Options struct {
	APIKey          string
	BaseURL         string
	ValidationModel string
	GenerationModel string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	Normalizer      *imaging.Normalizer

	// MaxRetries is the number of extra attempts after the first failure.
	MaxRetries int
	// RetryDelay is the base delay; attempt n waits n times this value.
	RetryDelay      time.Duration
	ValidateTimeout time.Duration
	GenerateTimeout time.Duration

	// StrictValidation surfaces validation transport failures instead of the
	// default fail-open verdict. The fail-open default is a product decision:
	// a flaky validator must never block the shopper, while generation
	// failures are always reported.
	StrictValidation bool
}

// Client performs validation and generation calls against the Gemini
// generateContent API. It is stateless and safe for concurrent use.
type Client struct {
	apiKey          string
	baseURL         string
	validationModel string
	generationModel string
	httpClient      *http.Client
	logger          *infra.Logger
	normalizer      *imaging.Normalizer

	maxRetries       int
	retryDelay       time.Duration
	validateTimeout  time.Duration
	generateTimeout  time.Duration
	strictValidation bool
}

// Verdict is the structured result of a validation call.
type Verdict struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

// GenerateRequest carries the inputs for one stylized-figure generation.
type GenerateRequest struct {
	Image     []byte
	Secondary []byte
	Role      catalog.SlotRole
	StyleID   string
}

// Artifact is a generated image payload ready for display.
type Artifact struct {
	Data []byte
	MIME string
}

// DataURL encodes the artifact for direct embedding in an <img> source.
func (a *Artifact) DataURL() string {
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// NewClient constructs a vision client with sane defaults. A nil HTTP client
// gets a reusable one without its own timeout; per-call deadlines are applied
// by Validate and Generate.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	validationModel := strings.TrimSpace(opts.ValidationModel)
	if validationModel == "" {
		validationModel = "gemini-3-flash-preview"
	}
	generationModel := strings.TrimSpace(opts.GenerationModel)
	if generationModel == "" {
		generationModel = "gemini-2.5-flash-image"
	}
	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = imaging.NewNormalizer()
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	} else if maxRetries == 0 {
		maxRetries = 2
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	validateTimeout := opts.ValidateTimeout
	if validateTimeout <= 0 {
		validateTimeout = 30 * time.Second
	}
	generateTimeout := opts.GenerateTimeout
	if generateTimeout <= 0 {
		generateTimeout = 120 * time.Second
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:           strings.TrimSpace(opts.APIKey),
		baseURL:          baseURL,
		validationModel:  validationModel,
		generationModel:  generationModel,
		httpClient:       httpClient,
		logger:           logger,
		normalizer:       normalizer,
		maxRetries:       maxRetries,
		retryDelay:       retryDelay,
		validateTimeout:  validateTimeout,
		generateTimeout:  generateTimeout,
		strictValidation: opts.StrictValidation,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Validate asks the model whether the upload satisfies the style's content
// criteria. Transport failures after retries and unparseable responses yield
// a passing verdict unless StrictValidation is set: a malfunctioning
// validator must never read as a rejection of the shopper's photo.
func (c *Client) Validate(ctx context.Context, image []byte, role catalog.SlotRole, styleID, language string) (Verdict, error) {
	if !c.HasCredentials() {
		return Verdict{}, ErrMissingAPIKey
	}
	payload, mime, err := c.normalizer.ForValidation(image)
	if err != nil {
		return Verdict{}, err
	}

	req := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{MimeType: mime, Data: base64.StdEncoding.EncodeToString(payload)}},
				{Text: BuildValidationInstruction(styleID, role, language)},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	resp, err := c.generateContent(ctx, c.validationModel, req, c.validateTimeout)
	if err != nil {
		if c.strictValidation {
			return Verdict{}, err
		}
		c.logger.Warn().Err(err).Str("style", styleID).Msg("gemini: validation call failed; passing open")
		return Verdict{IsValid: true}, nil
	}

	verdict, err := parseVerdict(resp)
	if err != nil {
		if c.strictValidation {
			return Verdict{}, err
		}
		c.logger.Warn().Err(err).Str("style", styleID).Msg("gemini: unparseable validation response; passing open")
		return Verdict{IsValid: true}, nil
	}
	return verdict, nil
}

// Generate produces the stylized figure preview for the upload. Unlike
// Validate, failures here are always surfaced.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Artifact, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	primary, primaryMIME, err := c.normalizer.ForGeneration(req.Image)
	if err != nil {
		return nil, err
	}
	parts := []geminiPart{
		{InlineData: &geminiInlineData{MimeType: primaryMIME, Data: base64.StdEncoding.EncodeToString(primary)}},
	}
	if len(req.Secondary) > 0 {
		secondary, secondaryMIME, err := c.normalizer.ForGeneration(req.Secondary)
		if err != nil {
			return nil, err
		}
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{MimeType: secondaryMIME, Data: base64.StdEncoding.EncodeToString(secondary)}})
	}
	parts = append(parts, geminiPart{Text: BuildGenerationInstruction(req.StyleID, req.Role)})

	payload := geminiGenerateContentRequest{Contents: []geminiContent{{Parts: parts}}}
	resp, err := c.generateContent(ctx, c.generationModel, payload, c.generateTimeout)
	if err != nil {
		return nil, err
	}

	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("gemini: decode inline image: %w", err)
			}
			mime := part.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			return &Artifact{Data: data, MIME: mime}, nil
		}
	}
	return nil, ErrNoImage
}

func (c *Client) generateContent(ctx context.Context, model string, payload geminiGenerateContentRequest, timeout time.Duration) (*geminiGenerateContentResponse, error) {
	var out geminiGenerateContentResponse
	err := c.withRetry(ctx, model, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		out = geminiGenerateContentResponse{}
		return c.invoke(callCtx, model, payload, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) invoke(ctx context.Context, model string, payload geminiGenerateContentRequest, out *geminiGenerateContentResponse) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gemini: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gemini: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gemini: decode response: %w", err)
	}
	return nil
}

func (c *Client) statusError(status int, raw []byte) error {
	message := strings.TrimSpace(string(raw))
	var detail geminiErrorResponse
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
		message = detail.Error.Message
	}
	if status == http.StatusNotFound || strings.Contains(message, "Requested entity was not found") {
		return fmt.Errorf("%w: %s", ErrCredentialRejected, message)
	}
	return &apiError{status: status, message: message}
}

func parseVerdict(resp *geminiGenerateContentResponse) (Verdict, error) {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			var verdict Verdict
			if err := json.Unmarshal([]byte(stripCodeFence(text)), &verdict); err != nil {
				return Verdict{}, fmt.Errorf("gemini: decode verdict: %w", err)
			}
			return verdict, nil
		}
	}
	return Verdict{}, errors.New("gemini: empty validation response")
}

// stripCodeFence removes a surrounding markdown fence; the model sometimes
// wraps JSON output despite the response MIME hint.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

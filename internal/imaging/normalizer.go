package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "github.com/gen2brain/webp"
	"golang.org/x/image/draw"
)

// ErrSizeExceeded indicates an upload breaches one of the hard ceilings. The
// check is deliberately run against the original payload, before any resize:
// retrying the same image cannot help, so callers should not retry.
var ErrSizeExceeded = errors.New("imaging: image exceeds size limits")

// Normalizer bounds uploads before they are sent to the vision service. The
// zero value is not usable; call NewNormalizer for the production ceilings.
type Normalizer struct {
	// MaxBytes is the ceiling on the decoded upload size.
	MaxBytes int
	// MaxDimension is the ceiling on the longer image dimension, in pixels.
	MaxDimension int
}

const (
	defaultMaxBytes     = 4 << 20
	defaultMaxDimension = 2000

	// ValidationMaxDimension bounds images sent on the validation path.
	ValidationMaxDimension = 1024
	// ValidationQuality is the JPEG quality used when re-encoding for validation.
	ValidationQuality = 85
	// GenerationMaxDimension bounds images sent on the generation path.
	GenerationMaxDimension = 1536
	// GenerationQuality is the JPEG quality used when re-encoding for generation.
	GenerationQuality = 90
)

// NewNormalizer returns a normalizer with the production ceilings: 4 MiB and
// a 2000 px longer dimension.
func NewNormalizer() *Normalizer {
	return &Normalizer{MaxBytes: defaultMaxBytes, MaxDimension: defaultMaxDimension}
}

// CheckLimits rejects payloads over the byte or dimension ceiling. When the
// image cannot be decoded for dimension probing, the dimension check is
// skipped rather than blocking the pipeline.
func (n *Normalizer) CheckLimits(data []byte) error {
	if len(data) > n.MaxBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrSizeExceeded, len(data), n.MaxBytes)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	if longer(cfg.Width, cfg.Height) > n.MaxDimension {
		return fmt.Errorf("%w: %dx%d px (max longer side %d)", ErrSizeExceeded, cfg.Width, cfg.Height, n.MaxDimension)
	}
	return nil
}

// ScaleToFit downscales the image proportionally so its longer dimension
// equals maxDim, re-encoding as JPEG at the given quality. Images already
// within bounds are returned unchanged, as are payloads that cannot be
// decoded. The returned MIME type reflects the payload actually returned.
func (n *Normalizer) ScaleToFit(data []byte, maxDim, quality int) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, detectMIME(data), nil
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if longer(w, h) <= maxDim {
		return data, mimeForFormat(format, data), nil
	}

	scale := float64(maxDim) / float64(longer(w, h))
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("imaging: encode scaled image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// ForValidation runs the ceiling check and the validation-path resize.
func (n *Normalizer) ForValidation(data []byte) ([]byte, string, error) {
	if err := n.CheckLimits(data); err != nil {
		return nil, "", err
	}
	return n.ScaleToFit(data, ValidationMaxDimension, ValidationQuality)
}

// ForGeneration runs the ceiling check and the generation-path resize.
func (n *Normalizer) ForGeneration(data []byte) ([]byte, string, error) {
	if err := n.CheckLimits(data); err != nil {
		return nil, "", err
	}
	return n.ScaleToFit(data, GenerationMaxDimension, GenerationQuality)
}

func longer(w, h int) int {
	if w > h {
		return w
	}
	return h
}

func mimeForFormat(format string, data []byte) string {
	switch format {
	case "png":
		return "image/png"
	case "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return detectMIME(data)
	}
}

func detectMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return "image/png"
	case bytes.HasPrefix(data, []byte("\xff\xd8")):
		return "image/jpeg"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	default:
		return "image/png"
	}
}

package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
)

var (
	ErrInvalidVariableName = errors.New("invalid variable name")
	ErrDelayOutOfRange     = errors.New("delay value out of range")
	ErrInvalidMeasurement  = errors.New("invalid delay measurement")
	ErrButtonTextTooLong   = errors.New("button text too long")
	ErrButtonCount         = errors.New("invalid button count")
	ErrInvalidFieldType    = errors.New("invalid field type")
	ErrTooManyAttachments  = errors.New("too many attachments")
	ErrAttachmentTooLarge  = errors.New("attachment too large")
	ErrMediaTypeNotAllowed = errors.New("media type not allowed")
)

// Editing limits. Delay ceilings are all one month expressed in the
// respective unit.
const (
	MaxButtonTextLen = 50
	MinButtons       = 1
	MaxButtons       = 10

	MaxAttachmentsPerBatch = 10
	MaxAttachmentSize      = 32 << 20

	MaxDelaySeconds = 2678400
	MaxDelayMinutes = 44640
	MaxDelayHours   = 744
	MaxDelayDays    = 31
)

var variableNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// VariableName checks the identifier rule for input_data variables: a
// letter followed by letters, digits and underscores.
func VariableName(name string) error {
	if !variableNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
	}
	return nil
}

// DelayCeiling returns the inclusive upper bound for a measurement unit.
func DelayCeiling(m scenario.Measurement) (int64, error) {
	switch m {
	case scenario.MeasurementSeconds:
		return MaxDelaySeconds, nil
	case scenario.MeasurementMinutes:
		return MaxDelayMinutes, nil
	case scenario.MeasurementHours:
		return MaxDelayHours, nil
	case scenario.MeasurementDays:
		return MaxDelayDays, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMeasurement, m)
	}
}

// Delay checks a delay value: a non-negative number, fractional values
// included, within the ceiling of its unit.
func Delay(v scenario.DelayValue) error {
	ceiling, err := DelayCeiling(v.Measurement)
	if err != nil {
		return err
	}
	n, err := strconv.ParseFloat(v.Duration, 64)
	if err != nil || math.IsNaN(n) {
		return fmt.Errorf("%w: %q is not a number", ErrDelayOutOfRange, v.Duration)
	}
	if n < 0 || n > float64(ceiling) {
		return fmt.Errorf("%w: %s %s (max %d)", ErrDelayOutOfRange, v.Duration, v.Measurement, ceiling)
	}
	return nil
}

// ButtonText checks a single button caption against the length cap.
func ButtonText(text string) error {
	if len([]rune(text)) > MaxButtonTextLen {
		return fmt.Errorf("%w: %d runes (max %d)", ErrButtonTextTooLong, len([]rune(text)), MaxButtonTextLen)
	}
	return nil
}

// ClampButtonText truncates a caption to the length cap.
func ClampButtonText(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxButtonTextLen {
		return text
	}
	return string(runes[:MaxButtonTextLen])
}

// Buttons checks the button list of a menu or input_data block.
func Buttons(buttons []scenario.Button) error {
	if len(buttons) < MinButtons || len(buttons) > MaxButtons {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrButtonCount, len(buttons), MinButtons, MaxButtons)
	}
	for _, b := range buttons {
		if err := ButtonText(b.Text); err != nil {
			return fmt.Errorf("button %q: %w", b.ID, err)
		}
	}
	return nil
}

// FieldType checks that an input_data field type is one of the known set.
func FieldType(ft scenario.FieldType) error {
	for _, known := range scenario.FieldTypes() {
		if ft == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidFieldType, ft)
}

// MediaContentType reports whether a content type is allowed in a media
// message: images and video only.
func MediaContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		strings.HasPrefix(contentType, "video/")
}

// AttachmentFile describes a file before upload: only the properties
// checked ahead of the transfer.
type AttachmentFile struct {
	Filename    string
	ContentType string
	Size        int64
}

// AttachmentBatch pre-validates a set of files for a message block
// before any byte is uploaded. mediaOnly applies the media-message type
// gate.
func AttachmentBatch(files []AttachmentFile, mediaOnly bool) error {
	if len(files) > MaxAttachmentsPerBatch {
		return fmt.Errorf("%w: %d files (max %d)", ErrTooManyAttachments, len(files), MaxAttachmentsPerBatch)
	}
	for _, f := range files {
		if f.Size > MaxAttachmentSize {
			return fmt.Errorf("%w: %q is %d bytes (max %d)", ErrAttachmentTooLarge, f.Filename, f.Size, MaxAttachmentSize)
		}
		if mediaOnly && !MediaContentType(f.ContentType) {
			return fmt.Errorf("%w: %q (%s)", ErrMediaTypeNotAllowed, f.Filename, f.ContentType)
		}
	}
	return nil
}

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
)

func TestVariableName(t *testing.T) {
	valid := []string{"a", "var", "var_1", "Email", "x9_z"}
	for _, name := range valid {
		if err := VariableName(name); err != nil {
			t.Errorf("%q: unexpected error %v", name, err)
		}
	}

	invalid := []string{"", "1var", "_var", "var-1", "имя", "a b"}
	for _, name := range invalid {
		if err := VariableName(name); !errors.Is(err, ErrInvalidVariableName) {
			t.Errorf("%q: expected ErrInvalidVariableName, got %v", name, err)
		}
	}
}

func TestDelayCeilings(t *testing.T) {
	tests := []struct {
		measurement scenario.Measurement
		duration    string
		wantErr     bool
	}{
		{scenario.MeasurementSeconds, "2678400", false},
		{scenario.MeasurementSeconds, "2678401", true},
		{scenario.MeasurementMinutes, "44640", false},
		{scenario.MeasurementMinutes, "44641", true},
		{scenario.MeasurementHours, "744", false},
		{scenario.MeasurementHours, "745", true},
		{scenario.MeasurementDays, "31", false},
		{scenario.MeasurementDays, "32", true},
		{scenario.MeasurementSeconds, "0", false},
		{scenario.MeasurementSeconds, "1.5", false},
		{scenario.MeasurementDays, "0.5", false},
		{scenario.MeasurementSeconds, "2678400.5", true},
		{scenario.MeasurementSeconds, "-1", true},
		{scenario.MeasurementSeconds, "-0.5", true},
		{scenario.MeasurementSeconds, "abc", true},
		{scenario.MeasurementSeconds, "NaN", true},
	}

	for _, tt := range tests {
		err := Delay(scenario.DelayValue{Duration: tt.duration, Measurement: tt.measurement})
		if tt.wantErr && err == nil {
			t.Errorf("%s %s: expected error", tt.duration, tt.measurement)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s %s: unexpected error %v", tt.duration, tt.measurement, err)
		}
	}

	if err := Delay(scenario.DelayValue{Duration: "1", Measurement: "weeks"}); !errors.Is(err, ErrInvalidMeasurement) {
		t.Errorf("expected ErrInvalidMeasurement, got %v", err)
	}
}

func TestButtonText(t *testing.T) {
	if err := ButtonText(strings.Repeat("a", 50)); err != nil {
		t.Errorf("50 runes must pass, got %v", err)
	}
	if err := ButtonText(strings.Repeat("a", 51)); !errors.Is(err, ErrButtonTextTooLong) {
		t.Errorf("expected ErrButtonTextTooLong, got %v", err)
	}
	// Runes, not bytes.
	if err := ButtonText(strings.Repeat("я", 50)); err != nil {
		t.Errorf("50 cyrillic runes must pass, got %v", err)
	}
}

func TestClampButtonText(t *testing.T) {
	if got := ClampButtonText(strings.Repeat("я", 60)); got != strings.Repeat("я", 50) {
		t.Errorf("unexpected clamp result: %q", got)
	}
	if got := ClampButtonText("short"); got != "short" {
		t.Errorf("short text must stay intact, got %q", got)
	}
}

func TestButtons(t *testing.T) {
	if err := Buttons(nil); !errors.Is(err, ErrButtonCount) {
		t.Errorf("empty list: expected ErrButtonCount, got %v", err)
	}

	many := make([]scenario.Button, 11)
	if err := Buttons(many); !errors.Is(err, ErrButtonCount) {
		t.Errorf("11 buttons: expected ErrButtonCount, got %v", err)
	}

	ok := []scenario.Button{{ID: "b1", Text: "One"}}
	if err := Buttons(ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAttachmentBatch(t *testing.T) {
	png := AttachmentFile{Filename: "a.png", ContentType: "image/png", Size: 100}
	pdf := AttachmentFile{Filename: "a.pdf", ContentType: "application/pdf", Size: 100}

	if err := AttachmentBatch([]AttachmentFile{png, pdf}, false); err != nil {
		t.Errorf("document mode accepts any type, got %v", err)
	}
	if err := AttachmentBatch([]AttachmentFile{png, pdf}, true); !errors.Is(err, ErrMediaTypeNotAllowed) {
		t.Errorf("media mode must reject pdf, got %v", err)
	}

	big := AttachmentFile{Filename: "big.mp4", ContentType: "video/mp4", Size: MaxAttachmentSize + 1}
	if err := AttachmentBatch([]AttachmentFile{big}, true); !errors.Is(err, ErrAttachmentTooLarge) {
		t.Errorf("expected ErrAttachmentTooLarge, got %v", err)
	}

	batch := make([]AttachmentFile, 11)
	for i := range batch {
		batch[i] = png
	}
	if err := AttachmentBatch(batch, true); !errors.Is(err, ErrTooManyAttachments) {
		t.Errorf("expected ErrTooManyAttachments, got %v", err)
	}
}

package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
	"github.com/google/uuid"
)

// Shared button-list edits for menu and input_data blocks. Button ids
// double as outbound ports, so removal cascades are handled one level
// up, by the edit session.

func addButton(buttons []scenario.Button) ([]scenario.Button, error) {
	if len(buttons) >= validation.MaxButtons {
		return buttons, fmt.Errorf("%w: %d (max %d)",
			validation.ErrButtonCount, len(buttons)+1, validation.MaxButtons)
	}
	out := append([]scenario.Button(nil), buttons...)
	out = append(out, scenario.Button{
		ID:   uuid.NewString(),
		Text: fmt.Sprintf("Button %d", len(out)+1),
	})
	return out, nil
}

func removeButton(buttons []scenario.Button, id string) ([]scenario.Button, error) {
	idx := slices.IndexFunc(buttons, func(b scenario.Button) bool { return b.ID == id })
	if idx < 0 {
		return buttons, fmt.Errorf("%w: %q", ErrButtonNotFound, id)
	}
	if len(buttons) <= validation.MinButtons {
		return buttons, fmt.Errorf("%w: cannot drop below %d",
			validation.ErrButtonCount, validation.MinButtons)
	}
	out := append([]scenario.Button(nil), buttons...)
	return slices.Delete(out, idx, idx+1), nil
}

// setButtonText replaces a caption, clamping it to the length cap as
// the user types.
func setButtonText(buttons []scenario.Button, id, text string) ([]scenario.Button, error) {
	idx := slices.IndexFunc(buttons, func(b scenario.Button) bool { return b.ID == id })
	if idx < 0 {
		return buttons, fmt.Errorf("%w: %q", ErrButtonNotFound, id)
	}
	out := append([]scenario.Button(nil), buttons...)
	out[idx].Text = validation.ClampButtonText(text)
	return out, nil
}

// blurButtonText restores the positional default when a caption is left
// blank on blur.
func blurButtonText(buttons []scenario.Button, id string) ([]scenario.Button, error) {
	idx := slices.IndexFunc(buttons, func(b scenario.Button) bool { return b.ID == id })
	if idx < 0 {
		return buttons, fmt.Errorf("%w: %q", ErrButtonNotFound, id)
	}
	if strings.TrimSpace(buttons[idx].Text) != "" {
		return buttons, nil
	}
	out := append([]scenario.Button(nil), buttons...)
	out[idx].Text = fmt.Sprintf("Button %d", idx+1)
	return out, nil
}

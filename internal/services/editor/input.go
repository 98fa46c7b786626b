package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
)

// Input edits the payload of an input_data block. Variable names are
// unique across the document; callers pass the names already taken by
// sibling blocks.
type Input struct{}

// SetText replaces the prompt text.
func (Input) SetText(d scenario.InputData, text string) scenario.InputData {
	out := d.Clone().(scenario.InputData)
	out.Text = text
	return out
}

// SetFieldName replaces the human-readable field label.
func (Input) SetFieldName(d scenario.InputData, name string) scenario.InputData {
	out := d.Clone().(scenario.InputData)
	out.FieldName = name
	return out
}

// SetFieldType switches what the block collects.
func (Input) SetFieldType(d scenario.InputData, ft scenario.FieldType) (scenario.InputData, error) {
	if err := validation.FieldType(ft); err != nil {
		return d, err
	}
	out := d.Clone().(scenario.InputData)
	out.FieldType = ft
	return out, nil
}

// SetVariableName replaces the variable identifier after checking the
// naming rule and uniqueness against taken.
func (Input) SetVariableName(d scenario.InputData, name string, taken []string) (scenario.InputData, error) {
	if err := validation.VariableName(name); err != nil {
		return d, err
	}
	if slices.Contains(taken, name) {
		return d, fmt.Errorf("%w: %q", ErrVariableNameTaken, name)
	}
	out := d.Clone().(scenario.InputData)
	out.VariableName = name
	return out, nil
}

// AutoAssignVariable fills an empty variable name on blur with the first
// free var_N.
func (Input) AutoAssignVariable(d scenario.InputData, taken []string) scenario.InputData {
	if strings.TrimSpace(d.VariableName) != "" {
		return d
	}
	out := d.Clone().(scenario.InputData)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("var_%d", n)
		if !slices.Contains(taken, candidate) {
			out.VariableName = candidate
			return out
		}
	}
}

// SetValidationFailedText replaces the retry prompt.
func (Input) SetValidationFailedText(d scenario.InputData, text string) scenario.InputData {
	out := d.Clone().(scenario.InputData)
	out.ValidationFailedText = text
	return out
}

// BlurValidationFailedText restores the default retry prompt when the
// field is left blank.
func (Input) BlurValidationFailedText(d scenario.InputData) scenario.InputData {
	if strings.TrimSpace(d.ValidationFailedText) != "" {
		return d
	}
	out := d.Clone().(scenario.InputData)
	out.ValidationFailedText = "Validation error text"
	return out
}

// AddButton appends a button with a fresh id and a positional caption.
func (Input) AddButton(d scenario.InputData) (scenario.InputData, error) {
	buttons, err := addButton(d.Buttons)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.InputData)
	out.Buttons = buttons
	return out, nil
}

// RemoveButton deletes a button. The last button cannot be removed.
func (Input) RemoveButton(d scenario.InputData, id string) (scenario.InputData, error) {
	buttons, err := removeButton(d.Buttons, id)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.InputData)
	out.Buttons = buttons
	return out, nil
}

// SetButtonText replaces a caption, clamped to the length cap.
func (Input) SetButtonText(d scenario.InputData, id, text string) (scenario.InputData, error) {
	buttons, err := setButtonText(d.Buttons, id, text)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.InputData)
	out.Buttons = buttons
	return out, nil
}

// BlurButtonText restores the positional default for a caption left
// blank.
func (Input) BlurButtonText(d scenario.InputData, id string) (scenario.InputData, error) {
	buttons, err := blurButtonText(d.Buttons, id)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.InputData)
	out.Buttons = buttons
	return out, nil
}

package editor

import "github.com/VladKovDev/botconstructor/internal/domain/scenario"

// Menu edits the payload of a menu block.
type Menu struct{}

// SetText replaces the menu prompt.
func (Menu) SetText(d scenario.MenuData, text string) scenario.MenuData {
	out := d.Clone().(scenario.MenuData)
	out.Text = text
	return out
}

// AddButton appends a button with a fresh id and a positional caption.
func (Menu) AddButton(d scenario.MenuData) (scenario.MenuData, error) {
	buttons, err := addButton(d.Buttons)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.MenuData)
	out.Buttons = buttons
	return out, nil
}

// RemoveButton deletes a button. The last button cannot be removed.
func (Menu) RemoveButton(d scenario.MenuData, id string) (scenario.MenuData, error) {
	buttons, err := removeButton(d.Buttons, id)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.MenuData)
	out.Buttons = buttons
	return out, nil
}

// SetButtonText replaces a caption, clamped to the length cap.
func (Menu) SetButtonText(d scenario.MenuData, id, text string) (scenario.MenuData, error) {
	buttons, err := setButtonText(d.Buttons, id, text)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.MenuData)
	out.Buttons = buttons
	return out, nil
}

// BlurButtonText restores the positional default for a caption left
// blank.
func (Menu) BlurButtonText(d scenario.MenuData, id string) (scenario.MenuData, error) {
	buttons, err := blurButtonText(d.Buttons, id)
	if err != nil {
		return d, err
	}
	out := d.Clone().(scenario.MenuData)
	out.Buttons = buttons
	return out, nil
}

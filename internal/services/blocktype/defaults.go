package blocktype

import (
	"fmt"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
	"github.com/google/uuid"
)

// Placeholder texts of freshly created blocks.
const (
	defaultMessageText          = "Message placeholder"
	defaultMenuText             = "Default menu text"
	defaultFieldName            = "Text"
	defaultVariableName         = "var"
	defaultValidationFailedText = "Validation error text"
)

func builtinDescriptors() []Descriptor {
	return []Descriptor{
		{
			Type: scenario.BlockStart,
			Defaults: func() scenario.BlockData {
				return scenario.StartData{
					Triggers: []scenario.Trigger{
						{Type: scenario.TriggerStart, Enabled: true},
					},
				}
			},
			Validate: validateStart,
		},
		{
			Type: scenario.BlockMessage,
			Defaults: func() scenario.BlockData {
				return scenario.MessageData{
					Text:        defaultMessageText,
					Mode:        scenario.ModeMedia,
					Attachments: []scenario.Attachment{},
				}
			},
			Validate: validateMessage,
		},
		{
			Type: scenario.BlockMenu,
			Defaults: func() scenario.BlockData {
				return scenario.MenuData{
					Text: defaultMenuText,
					Buttons: []scenario.Button{
						{ID: uuid.NewString(), Text: "Button 1"},
					},
				}
			},
			Validate: validateMenu,
		},
		{
			Type: scenario.BlockDelay,
			Defaults: func() scenario.BlockData {
				return scenario.DelayData{
					Type: scenario.DelayKindDuration,
					Value: scenario.DelayValue{
						Duration:    "0",
						Measurement: scenario.MeasurementSeconds,
					},
				}
			},
			Validate: validateDelay,
		},
		{
			Type: scenario.BlockInputData,
			Defaults: func() scenario.BlockData {
				return scenario.InputData{
					Text:                 defaultMessageText,
					FieldName:            defaultFieldName,
					FieldType:            scenario.FieldText,
					VariableName:         defaultVariableName,
					ValidationFailedText: defaultValidationFailedText,
					Buttons: []scenario.Button{
						{ID: uuid.NewString(), Text: "Back"},
					},
				}
			},
			Validate: validateInputData,
		},
	}
}

func validateStart(data scenario.BlockData) error {
	d, ok := data.(scenario.StartData)
	if !ok {
		return fmt.Errorf("%w: expected start data", scenario.ErrTypeMismatch)
	}
	for _, trg := range d.Triggers {
		switch trg.Type {
		case scenario.TriggerStart, scenario.TriggerKeyWord:
		default:
			return fmt.Errorf("unknown trigger type %q", trg.Type)
		}
	}
	return nil
}

func validateMessage(data scenario.BlockData) error {
	d, ok := data.(scenario.MessageData)
	if !ok {
		return fmt.Errorf("%w: expected message data", scenario.ErrTypeMismatch)
	}
	switch d.Mode {
	case scenario.ModeMedia, scenario.ModeDocument:
	default:
		return fmt.Errorf("unknown message mode %q", d.Mode)
	}
	files := make([]validation.AttachmentFile, 0, len(d.Attachments))
	for _, a := range d.Attachments {
		files = append(files, validation.AttachmentFile{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	return validation.AttachmentBatch(files, d.Mode == scenario.ModeMedia)
}

func validateMenu(data scenario.BlockData) error {
	d, ok := data.(scenario.MenuData)
	if !ok {
		return fmt.Errorf("%w: expected menu data", scenario.ErrTypeMismatch)
	}
	return validation.Buttons(d.Buttons)
}

func validateDelay(data scenario.BlockData) error {
	d, ok := data.(scenario.DelayData)
	if !ok {
		return fmt.Errorf("%w: expected delay data", scenario.ErrTypeMismatch)
	}
	if d.Type != scenario.DelayKindDuration {
		return fmt.Errorf("unknown delay type %q", d.Type)
	}
	return validation.Delay(d.Value)
}

func validateInputData(data scenario.BlockData) error {
	d, ok := data.(scenario.InputData)
	if !ok {
		return fmt.Errorf("%w: expected input data", scenario.ErrTypeMismatch)
	}
	if err := validation.FieldType(d.FieldType); err != nil {
		return err
	}
	if err := validation.VariableName(d.VariableName); err != nil {
		return err
	}
	return validation.Buttons(d.Buttons)
}

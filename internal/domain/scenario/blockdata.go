package scenario

import (
	"encoding/json"
	"fmt"
	"slices"
)

// BlockData is the type-specific payload of a block, one variant per
// block kind. Port sets are intrinsic to the payload: button-carrying
// blocks expose one outbound port per button.
type BlockData interface {
	// Kind returns the block type this payload belongs to.
	Kind() BlockType
	// SourcePorts lists the valid outbound port names.
	SourcePorts() []string
	// TargetPorts lists the valid inbound port names.
	TargetPorts() []string
	// Clone returns a deep copy of the payload.
	Clone() BlockData
}

// StartData is the payload of the scenario entry block.
type StartData struct {
	Triggers []Trigger `json:"triggers"`
}

func (StartData) Kind() BlockType       { return BlockStart }
func (StartData) SourcePorts() []string { return []string{PortNext} }

// The start block has no inbound port: nothing triggers the trigger.
func (StartData) TargetPorts() []string { return nil }

func (d StartData) Clone() BlockData {
	out := d
	out.Triggers = slices.Clone(d.Triggers)
	for i := range out.Triggers {
		out.Triggers[i].Data.KeyWords = slices.Clone(out.Triggers[i].Data.KeyWords)
	}
	return out
}

// MessageMode selects between a media message (images/video only) and a
// document message (arbitrary files).
type MessageMode string

const (
	ModeMedia    MessageMode = "media"
	ModeDocument MessageMode = "document"
)

// MessageData is the payload of a message block. Text is an HTML string.
type MessageData struct {
	Text        string       `json:"text"`
	Mode        MessageMode  `json:"type"`
	Attachments []Attachment `json:"attachments"`
}

func (MessageData) Kind() BlockType       { return BlockMessage }
func (MessageData) SourcePorts() []string { return []string{PortNext} }
func (MessageData) TargetPorts() []string { return []string{PortStart} }

func (d MessageData) Clone() BlockData {
	out := d
	out.Attachments = slices.Clone(d.Attachments)
	return out
}

// MenuData is the payload of a menu block. Every button is an outbound
// branch of its own.
type MenuData struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons"`
}

func (MenuData) Kind() BlockType { return BlockMenu }

func (d MenuData) SourcePorts() []string {
	ports := make([]string, 0, len(d.Buttons))
	for _, b := range d.Buttons {
		ports = append(ports, b.ID)
	}
	return ports
}

func (MenuData) TargetPorts() []string { return []string{PortStart} }

func (d MenuData) Clone() BlockData {
	out := d
	out.Buttons = slices.Clone(d.Buttons)
	return out
}

// DelayKindDuration is the only delay flavor currently on the wire.
const DelayKindDuration = "duration"

// DelayData is the payload of a delay block.
type DelayData struct {
	Type  string     `json:"type"`
	Value DelayValue `json:"value"`
}

func (DelayData) Kind() BlockType       { return BlockDelay }
func (DelayData) SourcePorts() []string { return []string{PortNext} }
func (DelayData) TargetPorts() []string { return []string{PortStart} }
func (d DelayData) Clone() BlockData    { return d }

// InputData is the payload of a data-collection block. Buttons branch
// like menu buttons; the completed port is taken once the value passed
// field-type validation.
type InputData struct {
	Text                 string    `json:"text"`
	Buttons              []Button  `json:"buttons"`
	FieldName            string    `json:"field_name"`
	FieldType            FieldType `json:"field_type"`
	VariableName         string    `json:"variable_name"`
	ValidationFailedText string    `json:"validation_failed_text"`
}

func (InputData) Kind() BlockType { return BlockInputData }

func (d InputData) SourcePorts() []string {
	ports := make([]string, 0, len(d.Buttons)+1)
	for _, b := range d.Buttons {
		ports = append(ports, b.ID)
	}
	return append(ports, PortCompleted)
}

func (InputData) TargetPorts() []string { return []string{PortStart} }

func (d InputData) Clone() BlockData {
	out := d
	out.Buttons = slices.Clone(d.Buttons)
	return out
}

// blockEnvelope is the wire shape of a block; data is decoded in a second
// pass once the type tag is known.
type blockEnvelope struct {
	ID   string          `json:"id"`
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON emits the tagged wire form of the block.
func (b Block) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(b.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s block data: %w", b.Type, err)
	}
	return json.Marshal(blockEnvelope{ID: b.ID, Type: b.Type, Data: raw})
}

// UnmarshalJSON decodes the tagged wire form, dispatching the data payload
// on the sibling type field.
func (b *Block) UnmarshalJSON(p []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(p, &env); err != nil {
		return fmt.Errorf("failed to unmarshal block: %w", err)
	}
	data, err := decodeBlockData(env.Type, env.Data)
	if err != nil {
		return err
	}
	b.ID = env.ID
	b.Type = env.Type
	b.Data = data
	return nil
}

func decodeBlockData(typ BlockType, raw json.RawMessage) (BlockData, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	switch typ {
	case BlockStart:
		var v StartData
		return unmarshalVariant(&v, raw, typ)
	case BlockMessage:
		var v MessageData
		return unmarshalVariant(&v, raw, typ)
	case BlockMenu:
		var v MenuData
		return unmarshalVariant(&v, raw, typ)
	case BlockDelay:
		var v DelayData
		return unmarshalVariant(&v, raw, typ)
	case BlockInputData:
		var v InputData
		return unmarshalVariant(&v, raw, typ)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, typ)
	}
}

func unmarshalVariant[T BlockData](dst *T, raw json.RawMessage, typ BlockType) (BlockData, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s block data: %w", typ, err)
	}
	return *dst, nil
}

package scenario

import "time"

// BlockType identifies the kind of a block. The set is wire-stable:
// values round-trip exactly through the persistence boundary.
type BlockType string

const (
	BlockStart     BlockType = "start"
	BlockMessage   BlockType = "message"
	BlockMenu      BlockType = "menu"
	BlockDelay     BlockType = "delay"
	BlockInputData BlockType = "input_data"
)

// Fixed port names. Button-branching ports are named by the button's own id.
const (
	// PortStart is the inbound port present on every block except start.
	PortStart = "start"
	// PortNext is the single outbound port of start, message and delay blocks.
	PortNext = "next"
	// PortCompleted is the outbound port of an input_data block taken when
	// the collected value passed validation.
	PortCompleted = "completed"
)

// TriggerType identifies a start-block trigger condition.
type TriggerType string

const (
	TriggerStart   TriggerType = "start"
	TriggerKeyWord TriggerType = "key_word"
)

// TriggerData carries trigger parameters. Only key_word triggers use it.
type TriggerData struct {
	KeyWords []string `json:"key_words,omitempty"`
}

// Trigger is a start-block condition that activates the scenario.
type Trigger struct {
	Type    TriggerType `json:"type"`
	Enabled bool        `json:"enabled"`
	Data    TriggerData `json:"data"`
}

// Active reports whether the trigger would actually fire: it must be
// enabled, and a key_word trigger additionally needs at least one keyword.
func (t Trigger) Active() bool {
	if !t.Enabled {
		return false
	}
	if t.Type == TriggerKeyWord {
		return len(t.Data.KeyWords) > 0
	}
	return true
}

// Button is a single choice on a menu or input_data block. Its id doubles
// as the outbound port name for per-choice branching.
type Button struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Attachment is the metadata of an uploaded file referenced by a message
// block. The storage mechanics behind the url are opaque to the editor.
type Attachment struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Measurement is the unit of a delay duration.
type Measurement string

const (
	MeasurementSeconds Measurement = "seconds"
	MeasurementMinutes Measurement = "minutes"
	MeasurementHours   Measurement = "hours"
	MeasurementDays    Measurement = "days"
)

// DelayValue holds a delay as entered by the user. Duration stays a
// numeric string on the wire.
type DelayValue struct {
	Duration    string      `json:"duration"`
	Measurement Measurement `json:"measurement"`
}

// FieldType identifies what an input_data block collects.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldYesNo  FieldType = "yes_no"
	FieldPhone  FieldType = "phone"
	FieldEmail  FieldType = "email"
)

// FieldTypes lists every valid field type.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldText, FieldString, FieldNumber, FieldDate,
		FieldYesNo, FieldPhone, FieldEmail,
	}
}

// Coordinates is a block position on the canvas, in integer pixels.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BlockPlacement is the visual coordinate of a block. Purely
// presentational, but persisted so the editor is stable across sessions.
type BlockPlacement struct {
	ID    string      `json:"id"`
	Coord Coordinates `json:"coord"`
}

// ConnectionPoint is one endpoint of a directed edge: a named port on a
// block.
type ConnectionPoint struct {
	Point   string `json:"point"`
	BlockID string `json:"block_id"`
}

// Connection is a directed edge between two ports.
type Connection struct {
	From ConnectionPoint `json:"from"`
	To   ConnectionPoint `json:"to"`
}

// Block is a typed node in the scenario graph.
type Block struct {
	ID   string    `json:"id"`
	Type BlockType `json:"type"`
	Data BlockData `json:"data"`
}

// Draft is the unpublished working copy of a scenario's graph.
type Draft struct {
	Data Document `json:"data"`
}

// Scenario is the persisted aggregate: the live (published) document,
// an optional draft, and the trigger projection derived on publish.
type Scenario struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	Data      Document  `json:"data"`
	Draft     *Draft    `json:"draft,omitempty"`
	Triggers  []Trigger `json:"triggers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveTriggers extracts the enabled, effective triggers of the start
// block of doc. The result is what the runtime matches updates against,
// re-derived on every publish.
func ActiveTriggers(doc Document) []Trigger {
	for _, b := range doc.Blocks {
		start, ok := b.Data.(StartData)
		if !ok {
			continue
		}
		triggers := make([]Trigger, 0, len(start.Triggers))
		for _, t := range start.Triggers {
			if t.Active() {
				triggers = append(triggers, t)
			}
		}
		return triggers
	}
	return nil
}

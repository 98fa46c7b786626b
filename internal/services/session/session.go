package session

import (
	"math"
	"sync"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/blocktype"
)

// Session is one user's live editing state over a scenario draft: the
// working document plus the current selection. Canvas gestures come in
// as method calls; every successful mutation produces a fresh document
// snapshot handed to the change listener. Invalid gestures leave the
// document untouched.
//
// A session is safe for concurrent use, though in practice gestures
// arrive serialized from a single UI.
type Session struct {
	mu       sync.Mutex
	registry *blocktype.Registry
	doc      scenario.Document
	selected string

	onChange func(scenario.Document)
}

// New creates a session over a working document.
func New(registry *blocktype.Registry, doc scenario.Document) *Session {
	return &Session{
		registry: registry,
		doc:      doc.Clone(),
	}
}

// OnChange registers the listener invoked with a document snapshot
// after every mutation. Typically the draft controller's NoteEdit.
func (s *Session) OnChange(fn func(scenario.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Document returns a snapshot of the working document.
func (s *Session) Document() scenario.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Selected returns the id of the selected block, or "" when the
// settings panel is closed.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Reset replaces the working document and drops the selection. Used
// after a draft discard.
func (s *Session) Reset(doc scenario.Document) {
	s.mu.Lock()
	s.doc = doc.Clone()
	s.selected = ""
	s.mu.Unlock()
}

// ClickBlock selects a block, opening its settings panel. Clicking an
// unknown id is ignored.
func (s *Session) ClickBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Block(id); ok {
		s.selected = id
	}
}

// ClickPane drops the selection, closing the settings panel.
func (s *Session) ClickPane() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// DragStop pins a block at the drop position. Canvas coordinates are
// fractional; placements store whole pixels.
func (s *Session) DragStop(id string, x, y float64) {
	s.mu.Lock()
	next := s.doc.MovePlacement(id, roundCoord(x, y))
	changed := !next.Equal(s.doc)
	s.doc = next
	notify := s.onChange
	s.mu.Unlock()

	if changed && notify != nil {
		notify(next.Clone())
	}
}

// DropBlock creates a block of the given type at the drop position and
// selects it. An unregistered type is ignored.
func (s *Session) DropBlock(typ scenario.BlockType, x, y float64) (scenario.Block, bool) {
	s.mu.Lock()
	b, err := s.registry.NewBlock(typ)
	if err != nil {
		s.mu.Unlock()
		return scenario.Block{}, false
	}
	next := s.doc.WithBlock(b, roundCoord(x, y))
	s.doc = next
	s.selected = b.ID
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(next.Clone())
	}
	return b, true
}

// DeleteBlock removes a block with its placement and edges. Deleting
// the selected block closes the settings panel.
func (s *Session) DeleteBlock(id string) {
	s.mu.Lock()
	next := s.doc.DeleteBlock(id)
	changed := !next.Equal(s.doc)
	s.doc = next
	if s.selected == id {
		s.selected = ""
	}
	notify := s.onChange
	s.mu.Unlock()

	if changed && notify != nil {
		notify(next.Clone())
	}
}

// Connect completes a port-to-port drag. Structurally invalid drops and
// occupied source ports leave the document unchanged; the gesture just
// fizzles.
func (s *Session) Connect(from, to scenario.ConnectionPoint) {
	s.mu.Lock()
	next, err := s.doc.AddConnection(scenario.Connection{From: from, To: to})
	if err != nil {
		s.mu.Unlock()
		return
	}
	s.doc = next
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(next.Clone())
	}
}

// ClickEdge deletes the clicked connection.
func (s *Session) ClickEdge(c scenario.Connection) {
	s.mu.Lock()
	next := s.doc.RemoveConnection(c)
	changed := !next.Equal(s.doc)
	s.doc = next
	notify := s.onChange
	s.mu.Unlock()

	if changed && notify != nil {
		notify(next.Clone())
	}
}

// UpdateBlockData commits an edited payload from a settings panel. The
// payload has already passed its editor's checks; only the structural
// id/type match is verified here.
func (s *Session) UpdateBlockData(id string, data scenario.BlockData) error {
	s.mu.Lock()
	next, err := s.doc.UpdateBlockData(id, data)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = next
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(next.Clone())
	}
	return nil
}

// VariableNames lists the variable names of every input_data block
// except the one being edited, for uniqueness checks.
func (s *Session) VariableNames(excludeID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, b := range s.doc.Blocks {
		if b.ID == excludeID {
			continue
		}
		if in, ok := b.Data.(scenario.InputData); ok {
			names = append(names, in.VariableName)
		}
	}
	return names
}

func roundCoord(x, y float64) scenario.Coordinates {
	return scenario.Coordinates{
		X: int(math.Round(x)),
		Y: int(math.Round(y)),
	}
}

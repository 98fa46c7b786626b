package scenario

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Document is the scenario graph: blocks, the directed edges between
// their ports, and the visual placement of every block. All operations
// return a new document; the receiver is never mutated.
type Document struct {
	Blocks      []Block          `json:"blocks"`
	Connections []Connection     `json:"connections"`
	Placements  []BlockPlacement `json:"placements"`
}

// Clone returns a deep copy of the document. Nil and empty slices stay
// distinct so the copy re-encodes to the exact wire form it was decoded
// from.
func (d Document) Clone() Document {
	out := Document{
		Blocks:      slices.Clone(d.Blocks),
		Connections: slices.Clone(d.Connections),
		Placements:  slices.Clone(d.Placements),
	}
	for i := range out.Blocks {
		out.Blocks[i].Data = out.Blocks[i].Data.Clone()
	}
	return out
}

// Encode serializes the document in its wire form.
func (d Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// Decode parses a document from its wire form.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// Equal reports whether two documents serialize identically.
func (d Document) Equal(other Document) bool {
	a, err := d.Encode()
	if err != nil {
		return false
	}
	b, err := other.Encode()
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

// Block returns the block with the given id.
func (d Document) Block(id string) (Block, bool) {
	for _, b := range d.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Placement returns the placement of the block with the given id.
func (d Document) Placement(id string) (BlockPlacement, bool) {
	for _, p := range d.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return BlockPlacement{}, false
}

// WithBlock inserts a block together with its placement. The caller is
// responsible for a fresh unique id.
func (d Document) WithBlock(b Block, at Coordinates) Document {
	out := d.Clone()
	b.Data = b.Data.Clone()
	out.Blocks = append(out.Blocks, b)
	out.Placements = append(out.Placements, BlockPlacement{ID: b.ID, Coord: at})
	return out
}

// DeleteBlock removes the block, its placement, and every connection
// touching it as either endpoint. Deleting an unknown id is a no-op.
func (d Document) DeleteBlock(id string) Document {
	out := d.Clone()
	out.Blocks = slices.DeleteFunc(out.Blocks, func(b Block) bool {
		return b.ID == id
	})
	out.Placements = slices.DeleteFunc(out.Placements, func(p BlockPlacement) bool {
		return p.ID == id
	})
	out.Connections = slices.DeleteFunc(out.Connections, func(c Connection) bool {
		return c.From.BlockID == id || c.To.BlockID == id
	})
	return out
}

// MovePlacement replaces the placement coordinate of a block. Unknown
// ids are a silent no-op.
func (d Document) MovePlacement(id string, to Coordinates) Document {
	out := d.Clone()
	for i, p := range out.Placements {
		if p.ID == id {
			out.Placements[i].Coord = to
			break
		}
	}
	return out
}

// AddConnection inserts a directed edge after validating both endpoints.
// A source port carries at most one edge: adding a second edge from an
// occupied (block, port) pair returns the document unchanged with
// ErrPortOccupied, so the first writer wins.
func (d Document) AddConnection(c Connection) (Document, error) {
	from, ok := d.Block(c.From.BlockID)
	if !ok {
		return d, fmt.Errorf("%w: source block %q", ErrInvalidConnection, c.From.BlockID)
	}
	to, ok := d.Block(c.To.BlockID)
	if !ok {
		return d, fmt.Errorf("%w: target block %q", ErrInvalidConnection, c.To.BlockID)
	}
	if c.From.Point == PortStart {
		return d, fmt.Errorf("%w: %q is a target-only port", ErrInvalidConnection, PortStart)
	}
	if !slices.Contains(from.Data.SourcePorts(), c.From.Point) {
		return d, fmt.Errorf("%w: block %q has no source port %q", ErrInvalidConnection, from.ID, c.From.Point)
	}
	if !slices.Contains(to.Data.TargetPorts(), c.To.Point) {
		return d, fmt.Errorf("%w: block %q has no target port %q", ErrInvalidConnection, to.ID, c.To.Point)
	}
	for _, existing := range d.Connections {
		if existing.From == c.From {
			return d, fmt.Errorf("%w: %q port %q", ErrPortOccupied, c.From.BlockID, c.From.Point)
		}
	}
	out := d.Clone()
	out.Connections = append(out.Connections, c)
	return out, nil
}

// RemoveConnection deletes the edge identified by the exact endpoint
// quad. Removal is idempotent.
func (d Document) RemoveConnection(c Connection) Document {
	out := d.Clone()
	out.Connections = slices.DeleteFunc(out.Connections, func(e Connection) bool {
		return e == c
	})
	return out
}

// UpdateBlockData replaces a block's payload wholesale. Only the
// structural shape is checked here: the payload variant must match the
// block type. Business validation is the block editors' job.
func (d Document) UpdateBlockData(id string, data BlockData) (Document, error) {
	idx := slices.IndexFunc(d.Blocks, func(b Block) bool { return b.ID == id })
	if idx < 0 {
		return d, fmt.Errorf("%w: %q", ErrBlockNotFound, id)
	}
	if data.Kind() != d.Blocks[idx].Type {
		return d, fmt.Errorf("%w: %s data on %s block %q",
			ErrTypeMismatch, data.Kind(), d.Blocks[idx].Type, id)
	}
	out := d.Clone()
	out.Blocks[idx].Data = data.Clone()
	return out, nil
}

// Validate checks the structural invariants of the document: unique
// block ids, a block/placement bijection, connections referencing
// existing ports, the single-edge cap per source port, and exactly one
// start block. A document that fails Validate is refused at publish.
func (d Document) Validate() error {
	ids := make(map[string]struct{}, len(d.Blocks))
	starts := 0
	for _, b := range d.Blocks {
		if _, dup := ids[b.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateBlockID, b.ID)
		}
		ids[b.ID] = struct{}{}
		if b.Type == BlockStart {
			starts++
		}
		if b.Data == nil || b.Data.Kind() != b.Type {
			return fmt.Errorf("%w: block %q", ErrTypeMismatch, b.ID)
		}
	}
	if starts == 0 {
		return ErrNoStartBlock
	}
	if starts > 1 {
		return ErrMultipleStartBlocks
	}

	placed := make(map[string]int, len(d.Placements))
	for _, p := range d.Placements {
		placed[p.ID]++
	}
	if len(placed) != len(d.Blocks) {
		return ErrPlacementMismatch
	}
	for id := range ids {
		if placed[id] != 1 {
			return fmt.Errorf("%w: block %q", ErrPlacementMismatch, id)
		}
	}

	sources := make(map[ConnectionPoint]struct{}, len(d.Connections))
	for _, c := range d.Connections {
		from, ok := d.Block(c.From.BlockID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrDanglingConnection, c.From.BlockID)
		}
		to, ok := d.Block(c.To.BlockID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrDanglingConnection, c.To.BlockID)
		}
		if !slices.Contains(from.Data.SourcePorts(), c.From.Point) {
			return fmt.Errorf("%w: block %q port %q", ErrInvalidConnection, from.ID, c.From.Point)
		}
		if !slices.Contains(to.Data.TargetPorts(), c.To.Point) {
			return fmt.Errorf("%w: block %q port %q", ErrInvalidConnection, to.ID, c.To.Point)
		}
		if _, dup := sources[c.From]; dup {
			return fmt.Errorf("%w: %q port %q", ErrPortOccupied, c.From.BlockID, c.From.Point)
		}
		sources[c.From] = struct{}{}
	}
	return nil
}

package blocktype

import (
	"errors"
	"fmt"
	"sync"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/google/uuid"
)

var (
	// ErrInvalidType is returned when a block type is not registered
	ErrInvalidType = errors.New("invalid block type")
	// ErrTypeAlreadyRegistered is returned when a descriptor is registered twice
	ErrTypeAlreadyRegistered = errors.New("block type already registered")
)

// Descriptor declares everything the editor needs to know about one block
// kind: how a fresh block looks, which ports it exposes, and how its
// payload is validated. New kinds plug in through Register without
// touching the graph model.
type Descriptor struct {
	Type scenario.BlockType

	// Defaults builds the payload of a newly created block.
	Defaults func() scenario.BlockData

	// Validate checks a payload against the kind's business rules.
	Validate func(data scenario.BlockData) error
}

// Registry maps block types to their descriptors.
type Registry struct {
	mu    sync.RWMutex
	kinds map[scenario.BlockType]Descriptor
}

// NewRegistry creates a registry pre-populated with the built-in block
// kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[scenario.BlockType]Descriptor)}
	for _, d := range builtinDescriptors() {
		// Built-ins never collide.
		_ = r.Register(d)
	}
	return r
}

// Register adds a descriptor for a new block kind.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[d.Type]; exists {
		return fmt.Errorf("%w: %q", ErrTypeAlreadyRegistered, d.Type)
	}
	r.kinds[d.Type] = d
	return nil
}

// Get returns the descriptor for a block type.
func (r *Registry) Get(typ scenario.BlockType) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.kinds[typ]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	return d, nil
}

// NewBlock creates a block of the given type with a fresh id and the
// kind's default payload.
func (r *Registry) NewBlock(typ scenario.BlockType) (scenario.Block, error) {
	d, err := r.Get(typ)
	if err != nil {
		return scenario.Block{}, err
	}
	return scenario.Block{
		ID:   uuid.NewString(),
		Type: typ,
		Data: d.Defaults(),
	}, nil
}

// Validate checks a payload against the rules of its own kind.
func (r *Registry) Validate(data scenario.BlockData) error {
	d, err := r.Get(data.Kind())
	if err != nil {
		return err
	}
	return d.Validate(data)
}

// SourcePorts returns the valid outbound port names for a payload.
// Port sets are intrinsic to the payload (button ids are ports), so the
// registry just delegates.
func (r *Registry) SourcePorts(data scenario.BlockData) []string {
	return data.SourcePorts()
}

// TargetPorts returns the valid inbound port names for a payload.
func (r *Registry) TargetPorts(data scenario.BlockData) []string {
	return data.TargetPorts()
}

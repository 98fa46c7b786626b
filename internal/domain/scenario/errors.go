package scenario

import "errors"

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrNoDraft          = errors.New("scenario has no draft")

	ErrBlockNotFound    = errors.New("block not found")
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrTypeMismatch     = errors.New("block data type mismatch")
	ErrDuplicateBlockID = errors.New("duplicate block id")

	ErrInvalidConnection  = errors.New("invalid connection")
	ErrPortOccupied       = errors.New("source port already occupied")
	ErrDanglingConnection = errors.New("connection references a missing block")

	ErrPlacementMismatch = errors.New("blocks and placements out of sync")

	ErrNoStartBlock        = errors.New("document has no start block")
	ErrMultipleStartBlocks = errors.New("document has multiple start blocks")
)

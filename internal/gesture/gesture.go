// Package gesture translates a drag's end-state displacement into exactly one
// discrete scheduling action: reassign a booking to another vehicle column, or
// shift its dates by whole days. A drag never produces both.
package gesture

import (
	"errors"
	"math"
	"time"
)

// Validation errors.
var (
	ErrSameVehicle     = errors.New("target vehicle is the same as the source")
	ErrAlreadyAssigned = errors.New("booking is already assigned to the target vehicle")
)

// Kind identifies the interpreted action.
type Kind int

const (
	KindNone Kind = iota
	KindReassign
	KindShiftDates
)

func (k Kind) String() string {
	switch k {
	case KindReassign:
		return "reassign"
	case KindShiftDates:
		return "shift-dates"
	default:
		return "none"
	}
}

// Action is the discrete outcome of a drag. Exactly one of ColumnDelta or
// DayDelta is meaningful, selected by Kind.
type Action struct {
	Kind        Kind
	ColumnDelta int // vehicle columns to the right (negative = left)
	DayDelta    int // days down (negative = up)
}

// Defaults for cell geometry and the hold-before-drag delay. All three are
// tunables; the config file can override them.
const (
	DefaultCellWidth  = 50.0
	DefaultCellHeight = 44.0
	DefaultHoldDelay  = 150 * time.Millisecond
)

// Config holds the grid geometry used to quantize displacements.
type Config struct {
	CellWidth  float64       // width of one vehicle column
	CellHeight float64       // height of one day row
	HoldDelay  time.Duration // press-and-hold time before a drag arms
}

func (c Config) withDefaults() Config {
	if c.CellWidth <= 0 {
		c.CellWidth = DefaultCellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = DefaultCellHeight
	}
	if c.HoldDelay <= 0 {
		c.HoldDelay = DefaultHoldDelay
	}
	return c
}

// Interpret converts a displacement into an action. The dominant axis decides
// the action kind; the rounded cell count on that axis decides the magnitude.
// A zero magnitude on the winning axis is a tap, not a drag. Decoupling axis
// dominance from magnitude keeps diagonal drags unambiguous: one confirmation
// message, one mutation, one rollback path.
func Interpret(dx, dy float64, cfg Config) Action {
	cfg = cfg.withDefaults()

	if math.Abs(dx) > math.Abs(dy) {
		cols := int(math.Round(dx / cfg.CellWidth))
		if cols == 0 {
			return Action{Kind: KindNone}
		}
		return Action{Kind: KindReassign, ColumnDelta: cols}
	}

	days := int(math.Round(dy / cfg.CellHeight))
	if days == 0 {
		return Action{Kind: KindNone}
	}
	return Action{Kind: KindShiftDates, DayDelta: days}
}

// ResolveTarget resolves a reassign action's target column, clamped into
// [0, visibleCount). Returns ErrSameVehicle when the clamped target lands
// back on the source column.
func ResolveTarget(sourceIdx, columnDelta, visibleCount int) (int, error) {
	target := sourceIdx + columnDelta
	if target < 0 {
		target = 0
	}
	if target > visibleCount-1 {
		target = visibleCount - 1
	}
	if target == sourceIdx {
		return 0, ErrSameVehicle
	}
	return target, nil
}

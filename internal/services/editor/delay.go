package editor

import (
	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
)

// Delay edits the payload of a delay block. Out-of-range values are
// rejected, not clamped: the payload keeps its previous value and the
// caller surfaces the error.
type Delay struct{}

// SetDuration replaces the numeric duration string.
func (Delay) SetDuration(d scenario.DelayData, duration string) (scenario.DelayData, error) {
	next := d.Value
	next.Duration = duration
	if err := validation.Delay(next); err != nil {
		return d, err
	}
	out := d
	out.Value = next
	return out, nil
}

// SetMeasurement switches the unit, re-checking the current duration
// against the new ceiling.
func (Delay) SetMeasurement(d scenario.DelayData, m scenario.Measurement) (scenario.DelayData, error) {
	next := d.Value
	next.Measurement = m
	if err := validation.Delay(next); err != nil {
		return d, err
	}
	out := d
	out.Value = next
	return out, nil
}

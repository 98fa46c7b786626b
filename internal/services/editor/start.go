package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
)

// Start edits the trigger list of a start block. All methods return a
// new payload; failed edits return the input unchanged.
type Start struct{}

// ToggleTrigger flips the enabled flag of the trigger with the given
// type. A trigger type absent from the list is added disabled-off first,
// so toggling an unknown type enables it.
func (Start) ToggleTrigger(d scenario.StartData, typ scenario.TriggerType) scenario.StartData {
	out := d.Clone().(scenario.StartData)
	for i, t := range out.Triggers {
		if t.Type == typ {
			out.Triggers[i].Enabled = !t.Enabled
			return out
		}
	}
	out.Triggers = append(out.Triggers, scenario.Trigger{Type: typ, Enabled: true})
	return out
}

// AddKeyword appends a keyword to the key_word trigger. The word is
// trimmed; empty and duplicate words are silently dropped. A missing
// key_word trigger is created disabled.
func (Start) AddKeyword(d scenario.StartData, word string) scenario.StartData {
	word = strings.TrimSpace(word)
	if word == "" {
		return d
	}
	out := d.Clone().(scenario.StartData)
	idx := slices.IndexFunc(out.Triggers, func(t scenario.Trigger) bool {
		return t.Type == scenario.TriggerKeyWord
	})
	if idx < 0 {
		out.Triggers = append(out.Triggers, scenario.Trigger{
			Type: scenario.TriggerKeyWord,
			Data: scenario.TriggerData{KeyWords: []string{word}},
		})
		return out
	}
	if slices.Contains(out.Triggers[idx].Data.KeyWords, word) {
		return d
	}
	out.Triggers[idx].Data.KeyWords = append(out.Triggers[idx].Data.KeyWords, word)
	return out
}

// RemoveKeyword deletes a keyword from the key_word trigger. Unknown
// words are a no-op.
func (Start) RemoveKeyword(d scenario.StartData, word string) scenario.StartData {
	out := d.Clone().(scenario.StartData)
	for i, t := range out.Triggers {
		if t.Type != scenario.TriggerKeyWord {
			continue
		}
		out.Triggers[i].Data.KeyWords = slices.DeleteFunc(t.Data.KeyWords, func(w string) bool {
			return w == word
		})
	}
	return out
}

// SetTriggerEnabled sets the enabled flag of an existing trigger.
func (Start) SetTriggerEnabled(d scenario.StartData, typ scenario.TriggerType, enabled bool) (scenario.StartData, error) {
	out := d.Clone().(scenario.StartData)
	for i, t := range out.Triggers {
		if t.Type == typ {
			out.Triggers[i].Enabled = enabled
			return out, nil
		}
	}
	return d, fmt.Errorf("%w: %q", ErrTriggerNotFound, typ)
}

package editor

import (
	"fmt"
	"slices"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
)

// Message edits the payload of a message block.
type Message struct{}

// SetText replaces the message text.
func (Message) SetText(d scenario.MessageData, text string) scenario.MessageData {
	out := d.Clone().(scenario.MessageData)
	out.Text = text
	return out
}

// SetMode switches between media and document delivery. Switching to
// media is refused while attachments of a non-media type are present:
// the user removes them first.
func (Message) SetMode(d scenario.MessageData, mode scenario.MessageMode) (scenario.MessageData, error) {
	if mode == d.Mode {
		return d, nil
	}
	if mode == scenario.ModeMedia {
		for _, a := range d.Attachments {
			if !validation.MediaContentType(a.ContentType) {
				return d, fmt.Errorf("%w: %q is %s", ErrModeSwitchBlocked, a.Filename, a.ContentType)
			}
		}
	}
	out := d.Clone().(scenario.MessageData)
	out.Mode = mode
	return out, nil
}

// AddAttachments appends uploaded files to the message, re-checking the
// batch limits against the resulting list.
func (Message) AddAttachments(d scenario.MessageData, uploaded []scenario.Attachment) (scenario.MessageData, error) {
	merged := append(append([]scenario.Attachment(nil), d.Attachments...), uploaded...)
	files := make([]validation.AttachmentFile, 0, len(merged))
	for _, a := range merged {
		files = append(files, validation.AttachmentFile{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	if err := validation.AttachmentBatch(files, d.Mode == scenario.ModeMedia); err != nil {
		return d, err
	}
	out := d.Clone().(scenario.MessageData)
	out.Attachments = merged
	return out, nil
}

// RemoveAttachment deletes the attachment with the given url.
func (Message) RemoveAttachment(d scenario.MessageData, url string) (scenario.MessageData, error) {
	idx := slices.IndexFunc(d.Attachments, func(a scenario.Attachment) bool {
		return a.URL == url
	})
	if idx < 0 {
		return d, fmt.Errorf("%w: %q", ErrAttachmentNotFound, url)
	}
	out := d.Clone().(scenario.MessageData)
	out.Attachments = slices.Delete(out.Attachments, idx, idx+1)
	return out, nil
}

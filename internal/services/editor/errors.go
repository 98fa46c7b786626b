package editor

import "errors"

var (
	ErrButtonNotFound     = errors.New("button not found")
	ErrTriggerNotFound    = errors.New("trigger not found")
	ErrModeSwitchBlocked  = errors.New("mode switch blocked by attachments")
	ErrVariableNameTaken  = errors.New("variable name already taken")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

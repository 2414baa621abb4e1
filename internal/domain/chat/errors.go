package chat

import "errors"

// ErrInvalidInput indicates a chat request missing its agent or content.
var ErrInvalidInput = errors.New("invalid chat input")

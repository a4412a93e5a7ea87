package feedback

import "errors"

var ErrEmptyFeedback = errors.New("feedback text is required")

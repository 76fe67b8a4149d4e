package ws

import (
	"encoding/json"
	"errors"
)

var errMalformedFrame = errors.New("malformed frame")

type intentKind int

const (
	intentSend intentKind = iota
	intentRead
	intentSearch
	intentEdit
	intentDelete
)

// intent is the tagged variant over the five recognized inbound frame
// shapes. Exactly one intent per frame.
type intent struct {
	kind       intentKind
	text       string
	messageID  int
	query      string
	newContent string
}

// parseIntent decodes an inbound frame. A frame matching none of the
// recognized shapes yields errMalformedFrame.
func parseIntent(data []byte) (intent, error) {
	var frame struct {
		Message         *string `json:"message"`
		ReadMessageID   *int    `json:"read_message_id"`
		Search          *string `json:"search"`
		EditMessageID   *int    `json:"edit_message_id"`
		NewContent      *string `json:"new_content"`
		DeleteMessageID *int    `json:"delete_message_id"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return intent{}, errMalformedFrame
	}

	switch {
	case frame.Message != nil:
		return intent{kind: intentSend, text: *frame.Message}, nil
	case frame.ReadMessageID != nil:
		return intent{kind: intentRead, messageID: *frame.ReadMessageID}, nil
	case frame.Search != nil:
		return intent{kind: intentSearch, query: *frame.Search}, nil
	case frame.EditMessageID != nil:
		if frame.NewContent == nil {
			return intent{}, errMalformedFrame
		}
		return intent{kind: intentEdit, messageID: *frame.EditMessageID, newContent: *frame.NewContent}, nil
	case frame.DeleteMessageID != nil:
		return intent{kind: intentDelete, messageID: *frame.DeleteMessageID}, nil
	}
	return intent{}, errMalformedFrame
}

package grid

import (
	"encoding/json"
	"fmt"
)

// Payload is the drag-and-drop transfer document, JSON-encoded on the drag
// source and decoded at the drop target. FromSchedule marks a drag that
// started on an existing grid item rather than a course card, which gives the
// drop move semantics instead of copy.
type Payload struct {
	CourseID     string `json:"courseId"`
	CourseName   string `json:"courseName"`
	CourseURL    string `json:"courseUrl"`
	FromSchedule bool   `json:"fromSchedule,omitempty"`
}

// Encode serializes the payload for a data-payload attribute.
func (p Payload) Encode() string {
	raw, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(raw)
}

// DecodePayload parses a transfer document. A payload without a course id is
// invalid; drops carrying one are ignored by the controller.
func DecodePayload(raw string) (Payload, error) {
	if raw == "" || raw == "null" {
		return Payload{}, fmt.Errorf("empty drop payload")
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, fmt.Errorf("decoding drop payload: %w", err)
	}
	if p.CourseID == "" {
		return Payload{}, fmt.Errorf("drop payload missing course id")
	}
	return p, nil
}

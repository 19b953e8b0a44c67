package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

const (
	NoTranscript  = "No transcript available"
	NoSummary     = "No summary available"
	UnknownStatus = "Unknown"
)

// CallRecord is one call entry as returned by the provider. Optional fields
// are left empty when the provider omits them.
type CallRecord struct {
	ID           string `json:"id"`
	Transcript   string `json:"transcript,omitempty"`
	Summary      string `json:"summary,omitempty"`
	RecordingURL string `json:"recordingUrl,omitempty"`
	Status       string `json:"status,omitempty"`
	StartedAt    string `json:"startedAt"`
}

// UnmarshalJSON reads each field independently. Strings are kept, numbers and
// booleans keep their JSON text, and any other value counts as absent, so one
// odd field never rejects the record.
func (r *CallRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = CallRecord{
		ID:           scalarText(fields["id"]),
		Transcript:   scalarText(fields["transcript"]),
		Summary:      scalarText(fields["summary"]),
		RecordingURL: scalarText(fields["recordingUrl"]),
		Status:       scalarText(fields["status"]),
		StartedAt:    scalarText(fields["startedAt"]),
	}
	return nil
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch v := v.(type) {
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (r CallRecord) TranscriptText() string {
	if r.Transcript == "" {
		return NoTranscript
	}
	return r.Transcript
}

func (r CallRecord) SummaryText() string {
	if r.Summary == "" {
		return NoSummary
	}
	return r.Summary
}

func (r CallRecord) StatusText() string {
	if r.Status == "" {
		return UnknownStatus
	}
	return r.Status
}

func (r CallRecord) HasRecording() bool {
	return r.RecordingURL != ""
}

// StartedTime parses StartedAt. The provider sends RFC 3339 with fractional seconds.
func (r CallRecord) StartedTime() (time.Time, bool) {
	if r.StartedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, r.StartedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vistamin/starchive/types"
)

const (
	// PlaceholderName is used when a record carries no display name.
	PlaceholderName = "Untitled Task"
	// PlaceholderGroup is used when a record carries no group name.
	PlaceholderGroup = "Unknown Group"
)

// TaskRecord is the caller-supplied document describing one completed unit
// of work (a drawing session in the original application). Only the fields
// below are understood by the store; everything else the caller sends is
// kept in Extra and survives round trips with its values intact.
type TaskRecord struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name,omitempty"`
	Timestamp  string `json:"timestamp" validate:"required"`
	TotalCount int    `json:"total_count,omitempty"`
	GroupName  string `json:"group_name,omitempty"`

	// Extra holds every caller field the store does not model, keyed by
	// JSON field name. Values stay raw so unknown shapes round-trip as
	// unmodified JSON values; only whitespace may be reflowed by the
	// indented shard encoding.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownRecordKeys are the JSON keys lifted into typed fields.
var knownRecordKeys = map[string]bool{
	"id":          true,
	"name":        true,
	"timestamp":   true,
	"total_count": true,
	"group_name":  true,
}

// UnmarshalJSON splits the document into typed fields and the Extra bag.
func (r *TaskRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type typedRecord struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Timestamp  string `json:"timestamp"`
		TotalCount int    `json:"total_count"`
		GroupName  string `json:"group_name"`
	}
	var typed typedRecord
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	*r = TaskRecord{
		ID:         typed.ID,
		Name:       typed.Name,
		Timestamp:  typed.Timestamp,
		TotalCount: typed.TotalCount,
		GroupName:  typed.GroupName,
	}
	for key, val := range raw {
		if knownRecordKeys[key] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[key] = val
	}
	return nil
}

// MarshalJSON reassembles typed fields and the Extra bag into one document.
func (r TaskRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+5)
	for key, val := range r.Extra {
		out[key] = val
	}
	set := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}
	if err := set("id", r.ID); err != nil {
		return nil, err
	}
	if err := set("timestamp", r.Timestamp); err != nil {
		return nil, err
	}
	if r.Name != "" {
		if err := set("name", r.Name); err != nil {
			return nil, err
		}
	}
	if r.TotalCount != 0 {
		if err := set("total_count", r.TotalCount); err != nil {
			return nil, err
		}
	}
	if r.GroupName != "" {
		if err := set("group_name", r.GroupName); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// DisplayName returns the record name or the placeholder when absent.
func (r TaskRecord) DisplayName() string {
	if r.Name == "" {
		return PlaceholderName
	}
	return r.Name
}

// Group returns the group name or the placeholder when absent.
func (r TaskRecord) Group() string {
	if r.GroupName == "" {
		return PlaceholderGroup
	}
	return r.GroupName
}

// ParsedTime parses the record timestamp as RFC 3339.
func (r TaskRecord) ParsedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, r.Timestamp)
}

// global validator instance
var validate = validator.New()

// Validate checks the record against the archive writer's preconditions and
// maps failures onto the store error taxonomy.
func (r TaskRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return types.NewHistoryError(types.ErrMissingField,
				"record is missing required field '"+jsonFieldName(verrs[0].Field())+"'", nil)
		}
		return types.NewHistoryError(types.ErrMissingField, "record failed validation", err)
	}
	if _, err := r.ParsedTime(); err != nil {
		return types.NewHistoryError(types.ErrMalformedTimestamp,
			"record timestamp is not RFC 3339: "+r.Timestamp, err)
	}
	return nil
}

func jsonFieldName(structField string) string {
	switch structField {
	case "ID":
		return "id"
	case "Timestamp":
		return "timestamp"
	default:
		return structField
	}
}

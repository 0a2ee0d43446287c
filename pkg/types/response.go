package types

import "encoding/json"

// SuccessEnvelope is the wire shape of every successful response:
// {"success":true} plus the handler's named payload fields at the top level.
type SuccessEnvelope struct {
	Fields map[string]any
}

// MarshalJSON flattens the payload fields next to the success flag.
func (s SuccessEnvelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Fields)+1)
	for k, v := range s.Fields {
		out[k] = v
	}
	out["success"] = true
	return json.Marshal(out)
}

// ErrorEnvelope is the wire shape of every failure.
type ErrorEnvelope struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    any    `json:"details,omitempty"`
}

package core

import "encoding/json"

// decodeJSONInto lets scripted completers hand structured replies to
// CompleteJSON callers without a real model.
func decodeJSONInto(raw string, out interface{}) error {
	if raw == "" {
		return ErrBadLLMReply
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return ErrBadLLMReply
	}
	return nil
}

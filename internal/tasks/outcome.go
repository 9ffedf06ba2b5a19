package tasks

import "encoding/json"

// FetchOutcome is the result of one catalog request: a JSON body on success, Err otherwise.
type FetchOutcome struct {
	Spec RequestSpec
	Body json.RawMessage
	Err  error
}

// OK reports whether the request succeeded.
func (o FetchOutcome) OK() bool {
	return o.Err == nil
}

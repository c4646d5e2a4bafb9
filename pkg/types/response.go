package types

import pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope is the wire shape for every failed request: a human-readable
// detail, a machine-distinguishable code, and optional per-field errors.
type ErrorEnvelope struct {
	Detail string                 `json:"detail"`
	Code   string                 `json:"code"`
	Errors []pkgerrors.FieldError `json:"errors,omitempty"`
}

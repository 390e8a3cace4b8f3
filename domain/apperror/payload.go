package apperror

// Payload is the wire form of an Error carried inside request-reply
// responses between modules.
type Payload struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToPayload converts err for transport. Unclassified errors become an
// internal payload with a generic message so that store details stay
// inside the module that produced them.
func ToPayload(err error) *Payload {
	if err == nil {
		return nil
	}
	appErr, ok := As(err)
	if !ok || appErr.Kind == KindInternal {
		return &Payload{Kind: KindInternal, Code: CodeInternal, Message: "internal server error"}
	}
	return &Payload{Kind: appErr.Kind, Code: appErr.Code, Message: appErr.Message}
}

// Err turns the payload back into an *Error. A nil payload yields nil.
func (p *Payload) Err() error {
	if p == nil {
		return nil
	}
	code := p.Code
	if code == "" {
		code = CodeInternal
	}
	return &Error{Kind: p.Kind, Code: code, Message: p.Message}
}

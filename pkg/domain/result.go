package domain

// ResultKind tags the variant held by a Result.
type ResultKind string

const (
	KindTranslated ResultKind = "translated" // Code holds the encoded line
	KindEmpty      ResultKind = "empty"      // Input was blank after trimming
	KindInvalid    ResultKind = "invalid"    // Invalid holds the offending characters
	KindNoSymbols  ResultKind = "no_symbols" // Nothing encodable survived
	KindFault      ResultKind = "fault"      // Internal fault caught at the transcoder boundary
)

// Result is the outcome of translating one piece of text.
// It is produced per call and never retained by the transcoder.
type Result struct {
	Kind ResultKind

	// Code is the encoded line: letters space separated, words joined by WordSeparator.
	// Only set for KindTranslated.
	Code string

	// Invalid lists unsupported characters, deduplicated, in first-seen order.
	// Only set for KindInvalid.
	Invalid []rune
}

// Translated builds a successful result.
func Translated(code string) Result {
	return Result{Kind: KindTranslated, Code: code}
}

// Invalid builds a validation failure.
func Invalid(chars []rune) Result {
	return Result{Kind: KindInvalid, Invalid: chars}
}

// Sendable reports whether the result carries a line that can go over the link.
func (r Result) Sendable() bool {
	return r.Kind == KindTranslated && r.Code != ""
}

// Payload returns the UTF-8 bytes of the encoded line, without terminator.
func (r Result) Payload() []byte {
	return []byte(r.Code)
}

// InvalidString renders the offending characters space separated.
func (r Result) InvalidString() string {
	return JoinRunes(r.Invalid)
}

// Err returns the error for failing variants and nil otherwise.
func (r Result) Err() error {
	switch r.Kind {
	case KindInvalid:
		return &ValidationError{Chars: r.Invalid}
	case KindNoSymbols:
		return ErrNoSymbols
	case KindFault:
		return ErrProcessingFault
	default:
		return nil
	}
}

// Key returns the stable message key of the result.
func (r Result) Key() string {
	if r.Kind == KindEmpty {
		return KeyInputEmpty
	}
	return MessageKey(r.Err())
}

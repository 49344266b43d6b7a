package domain

import "errors"

// Message keys let hosts and tests assert on the kind of an outcome rather than its text.
const (
	KeyOK                   = "ok"
	KeyInputEmpty           = "input.empty"
	KeyInputInvalid         = "input.invalid"
	KeyInputNoSymbols       = "input.no_symbols"
	KeyInputFault           = "input.fault"
	KeyLinkPermissionDenied = "link.permission_denied"
	KeyLinkPeerNotFound     = "link.peer_not_found"
	KeyLinkConnectFailed    = "link.connect_failed"
	KeyLinkSendFailed       = "link.send_failed"
	KeyLinkNotConnected     = "link.not_connected"
	KeyLinkClosed           = "link.closed"
	KeyUnknown              = "unknown"
)

var messageKeys = []struct {
	err error
	key string
}{
	{ErrInvalidInput, KeyInputInvalid},
	{ErrNoSymbols, KeyInputNoSymbols},
	{ErrProcessingFault, KeyInputFault},
	{ErrPermissionDenied, KeyLinkPermissionDenied},
	{ErrPeerNotFound, KeyLinkPeerNotFound},
	{ErrConnectFailed, KeyLinkConnectFailed},
	{ErrSendFailed, KeyLinkSendFailed},
	{ErrNotConnected, KeyLinkNotConnected},
	{ErrSessionClosed, KeyLinkClosed},
}

// MessageKey maps an error from any morselink package to its stable message key.
// A nil error maps to KeyOK.
func MessageKey(err error) string {
	if err == nil {
		return KeyOK
	}
	for _, mk := range messageKeys {
		if errors.Is(err, mk.err) {
			return mk.key
		}
	}
	return KeyUnknown
}

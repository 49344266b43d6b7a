package cli

import (
	"errors"
	"strings"

	"github.com/aretw0/morselink/pkg/domain"
)

// Keys for notices that are not errors.
const (
	KeyPermissionsGranted = "link.permissions_granted"
	KeyConnected          = "link.connected"
)

var messages = map[string]string{
	domain.KeyOK:                   "Sent",
	KeyPermissionsGranted:          "Permissions granted",
	KeyConnected:                   "Connected to the peer",
	domain.KeyInputEmpty:           "Nothing to translate",
	domain.KeyInputInvalid:         "Invalid characters",
	domain.KeyInputNoSymbols:       "No supported symbols",
	domain.KeyInputFault:           "Error processing input",
	domain.KeyLinkPermissionDenied: "Permissions denied, the link is unavailable",
	domain.KeyLinkPeerNotFound:     "Peer not found among bonded devices",
	domain.KeyLinkConnectFailed:    "Could not connect to the peer",
	domain.KeyLinkSendFailed:       "Send error",
	domain.KeyLinkNotConnected:     "Not connected",
	domain.KeyLinkClosed:           "Link closed",
	domain.KeyUnknown:              "Error",
}

// Describe returns the user text for a message key, or the key itself when unknown.
func Describe(key string) string {
	if text, ok := messages[key]; ok {
		return text
	}
	return key
}

// detailed lists the keys whose text is followed by the error detail.
var detailed = map[string]error{
	domain.KeyLinkPermissionDenied: domain.ErrPermissionDenied,
	domain.KeyLinkConnectFailed:    domain.ErrConnectFailed,
	domain.KeyLinkSendFailed:       domain.ErrSendFailed,
}

// Explain turns a translate or transmit outcome into a single line for the user.
// Successful outcomes explain to "".
func Explain(res domain.Result, err error) string {
	if res.Kind == domain.KindInvalid {
		return Describe(domain.KeyInputInvalid) + ": " + res.InvalidString()
	}
	if err == nil {
		return ""
	}

	key := domain.MessageKey(err)
	if key == domain.KeyUnknown {
		return Describe(key) + ": " + err.Error()
	}
	if sentinel, ok := detailed[key]; ok {
		if detail := detailOf(err, sentinel); detail != "" {
			return Describe(key) + ": " + detail
		}
	}
	return Describe(key)
}

func detailOf(err, sentinel error) string {
	var ce *domain.ConnectError
	if errors.As(err, &ce) && ce.Err != nil {
		return ce.Err.Error()
	}
	var se *domain.SendError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return ""
}

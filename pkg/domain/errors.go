package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("input contains unsupported characters")

	// ErrNoSymbols is returned when the input holds nothing the code table can encode.
	ErrNoSymbols = errors.New("no supported symbols")

	// ErrProcessingFault is returned when transcoding hits an unexpected internal fault.
	ErrProcessingFault = errors.New("input processing failed")
)

var (
	// ErrPermissionDenied is returned when a required capability has not been granted.
	ErrPermissionDenied = errors.New("link permission denied")

	// ErrPeerNotFound is returned when no known peer matches the configured target name.
	ErrPeerNotFound = errors.New("peer not found among known devices")

	// ErrConnectFailed is matched by every *ConnectError.
	ErrConnectFailed = errors.New("link connect failed")

	// ErrSendFailed is matched by every *SendError.
	ErrSendFailed = errors.New("link send failed")

	// ErrNotConnected is returned by Send when the session holds no connection.
	ErrNotConnected = errors.New("link not connected")

	// ErrSessionClosed is returned once the session has been torn down.
	ErrSessionClosed = errors.New("link session closed")
)

// ValidationError reports the characters that have no code, deduplicated in first-seen order.
type ValidationError struct {
	Chars []rune
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, JoinRunes(e.Chars))
}

// Is makes errors.Is(err, ErrInvalidInput) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConnectError wraps a transport-level failure while reaching a peer.
type ConnectError struct {
	Peer string
	Err  error
}

func (e *ConnectError) Error() string {
	if e.Peer == "" {
		return fmt.Sprintf("%s: %v", ErrConnectFailed, e.Err)
	}
	return fmt.Sprintf("%s (peer %q): %v", ErrConnectFailed, e.Peer, e.Err)
}

func (e *ConnectError) Is(target error) bool {
	return target == ErrConnectFailed
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// SendError wraps a transport-level write or flush failure.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSendFailed, e.Err)
}

func (e *SendError) Is(target error) bool {
	return target == ErrSendFailed
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// JoinRunes renders runes as a space separated list ("# %").
func JoinRunes(rs []rune) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

package wire

import (
	"errors"
	"fmt"
)

// Error kinds. Typed errors below unwrap to one of these, and remote
// ErrorPayloads are translated back to them, so callers can use errors.Is
// regardless of which side detected the failure.
var (
	ErrConnectorNotConnected  = errors.New("connector not connected")
	ErrConnectorChannelClosed = errors.New("connector channel closed")
	ErrDeviceNotConnected     = errors.New("device not connected")
	ErrMessageNotSupported    = errors.New("message not supported")
	ErrFeatureCountMismatch   = errors.New("feature count mismatch")
	ErrFeatureIndexOutOfRange = errors.New("feature index out of range")
	ErrUnexpectedMessageType  = errors.New("unexpected message type")
	ErrInvalidValue           = errors.New("invalid value")
	ErrDeviceNotFound         = errors.New("device not found")
	ErrDeviceCommunication    = errors.New("device communication error")
	ErrUnknown                = errors.New("unknown error")
)

// ErrorCode identifies an error kind on the wire.
type ErrorCode uint8

const (
	ErrorCodeUnknown                ErrorCode = 0
	ErrorCodeConnectorNotConnected  ErrorCode = 1
	ErrorCodeConnectorChannelClosed ErrorCode = 2
	ErrorCodeDeviceNotConnected     ErrorCode = 3
	ErrorCodeMessageNotSupported    ErrorCode = 4
	ErrorCodeFeatureCountMismatch   ErrorCode = 5
	ErrorCodeFeatureIndexOutOfRange ErrorCode = 6
	ErrorCodeUnexpectedMessageType  ErrorCode = 7
	ErrorCodeInvalidValue           ErrorCode = 8
	ErrorCodeDeviceNotFound         ErrorCode = 9
	ErrorCodeDeviceCommunication    ErrorCode = 10
)

// codeErrors is the fixed translation table between codes and kinds.
var codeErrors = map[ErrorCode]error{
	ErrorCodeConnectorNotConnected:  ErrConnectorNotConnected,
	ErrorCodeConnectorChannelClosed: ErrConnectorChannelClosed,
	ErrorCodeDeviceNotConnected:     ErrDeviceNotConnected,
	ErrorCodeMessageNotSupported:    ErrMessageNotSupported,
	ErrorCodeFeatureCountMismatch:   ErrFeatureCountMismatch,
	ErrorCodeFeatureIndexOutOfRange: ErrFeatureIndexOutOfRange,
	ErrorCodeUnexpectedMessageType:  ErrUnexpectedMessageType,
	ErrorCodeInvalidValue:           ErrInvalidValue,
	ErrorCodeDeviceNotFound:         ErrDeviceNotFound,
	ErrorCodeDeviceCommunication:    ErrDeviceCommunication,
}

// Err returns the error kind for the code. Unknown codes map to ErrUnknown.
func (c ErrorCode) Err() error {
	if err, ok := codeErrors[c]; ok {
		return err
	}
	return ErrUnknown
}

// String returns the code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeConnectorNotConnected:
		return "CONNECTOR_NOT_CONNECTED"
	case ErrorCodeConnectorChannelClosed:
		return "CONNECTOR_CHANNEL_CLOSED"
	case ErrorCodeDeviceNotConnected:
		return "DEVICE_NOT_CONNECTED"
	case ErrorCodeMessageNotSupported:
		return "MESSAGE_NOT_SUPPORTED"
	case ErrorCodeFeatureCountMismatch:
		return "FEATURE_COUNT_MISMATCH"
	case ErrorCodeFeatureIndexOutOfRange:
		return "FEATURE_INDEX_OUT_OF_RANGE"
	case ErrorCodeUnexpectedMessageType:
		return "UNEXPECTED_MESSAGE_TYPE"
	case ErrorCodeInvalidValue:
		return "INVALID_VALUE"
	case ErrorCodeDeviceNotFound:
		return "DEVICE_NOT_FOUND"
	case ErrorCodeDeviceCommunication:
		return "DEVICE_COMMUNICATION"
	default:
		return "UNKNOWN"
	}
}

// CodeOf returns the wire code for err by matching it against the error kinds.
func CodeOf(err error) ErrorCode {
	for code, kind := range codeErrors {
		if errors.Is(err, kind) {
			return code
		}
	}
	return ErrorCodeUnknown
}

// NewErrorPayload builds the payload reporting err to the remote side.
func NewErrorPayload(err error) ErrorPayload {
	return ErrorPayload{Code: CodeOf(err), Message: err.Error()}
}

// DeviceNotConnectedError is returned when a command targets a device
// that has disconnected.
type DeviceNotConnectedError struct {
	Name string
}

func (e *DeviceNotConnectedError) Error() string {
	return fmt.Sprintf("device %q not connected", e.Name)
}

func (e *DeviceNotConnectedError) Unwrap() error { return ErrDeviceNotConnected }

// MessageNotSupportedError is returned when a device does not accept a
// message type.
type MessageNotSupportedError struct {
	Type MessageType
}

func (e *MessageNotSupportedError) Error() string {
	return fmt.Sprintf("message %s not supported", e.Type)
}

func (e *MessageNotSupportedError) Unwrap() error { return ErrMessageNotSupported }

// FeatureCountMismatchError is returned when a command names more
// features than the device has.
type FeatureCountMismatchError struct {
	Expected uint32
	Got      uint32
}

func (e *FeatureCountMismatchError) Error() string {
	return fmt.Sprintf("feature count mismatch: device has %d features, command has %d", e.Expected, e.Got)
}

func (e *FeatureCountMismatchError) Unwrap() error { return ErrFeatureCountMismatch }

// FeatureIndexError is returned when a feature index is not below the
// feature count.
type FeatureIndexError struct {
	Count uint32
	Index uint32
}

func (e *FeatureIndexError) Error() string {
	return fmt.Sprintf("feature index %d out of range (device has %d features)", e.Index, e.Count)
}

func (e *FeatureIndexError) Unwrap() error { return ErrFeatureIndexOutOfRange }

// UnexpectedMessageTypeError is returned when an answer has a different,
// non-error type than the command expects.
type UnexpectedMessageTypeError struct {
	Description string
}

func (e *UnexpectedMessageTypeError) Error() string {
	return "unexpected message type: " + e.Description
}

func (e *UnexpectedMessageTypeError) Unwrap() error { return ErrUnexpectedMessageType }

// DomainError is a failure reported by the remote side.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.String()
}

func (e *DomainError) Unwrap() error { return e.Code.Err() }

// ErrorFromMessage translates an MsgError message into a *DomainError.
// A payload that cannot be decoded yields ErrorCodeUnknown.
func ErrorFromMessage(msg *Message) error {
	var payload ErrorPayload
	if err := msg.DecodePayload(&payload); err != nil {
		return &DomainError{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return &DomainError{Code: payload.Code, Message: payload.Message}
}

package alpaca

import "fmt"

// ErrorCode is an ASCOM Alpaca error number. The specification reserves
// 0x400-0xFFF for device errors and 0x500-0xFFF for driver-specific ones;
// everything below 0x400 is transport-level and never appears in an Error.
type ErrorCode int32

const (
	// CodeBase is the first reserved ASCOM error number.
	CodeBase ErrorCode = 0x400
	// CodeDriverBase is the first error number available to drivers.
	CodeDriverBase ErrorCode = 0x500
	// CodeMax is the last reserved ASCOM error number.
	CodeMax ErrorCode = 0xFFF
)

// Error numbers defined by the ASCOM specification.
const (
	CodeNotImplemented       ErrorCode = 0x400
	CodeInvalidValue         ErrorCode = 0x401
	CodeValueNotSet          ErrorCode = 0x402
	CodeNotConnected         ErrorCode = 0x407
	CodeInvalidWhileParked   ErrorCode = 0x408
	CodeInvalidWhileSlaved   ErrorCode = 0x409
	CodeInvalidOperation     ErrorCode = 0x40B
	CodeActionNotImplemented ErrorCode = 0x40C
	CodeOperationCancelled   ErrorCode = 0x40D
	CodeUnspecified          ErrorCode = 0x4FF
)

func (c ErrorCode) String() string {
	return fmt.Sprintf("%#x", int32(c))
}

// DriverErrorCode returns the driver-specific error number at the given
// offset from CodeDriverBase.
func DriverErrorCode(offset int32) (ErrorCode, error) {
	c := CodeDriverBase + ErrorCode(offset)
	if offset < 0 || c > CodeMax {
		return 0, fmt.Errorf("driver error offset %d out of range", offset)
	}
	return c, nil
}

// Error is a device-reported ASCOM error. Unlike transport errors, it is
// carried inside a 200 response envelope (or an ImageBytes error frame) and
// round-trips across the wire intact.
type Error struct {
	Code    ErrorCode
	Message string
}

// NewError builds an Error from a code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf builds an Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("ASCOM error %s: %s", e.Code, e.Message)
}

// Is matches two Errors by code alone, so errors.Is(err, ErrNotConnected)
// works regardless of the message a device attached.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// Well-known errors with their conventional messages. Devices return these
// directly or build their own with the same codes via NewErrorf.
var (
	ErrNotImplemented       = NewError(CodeNotImplemented, "Property or method not implemented")
	ErrInvalidValue         = NewError(CodeInvalidValue, "Invalid value")
	ErrValueNotSet          = NewError(CodeValueNotSet, "Value not set")
	ErrNotConnected         = NewError(CodeNotConnected, "Device is not connected")
	ErrInvalidWhileParked   = NewError(CodeInvalidWhileParked, "Operation not valid while parked")
	ErrInvalidWhileSlaved   = NewError(CodeInvalidWhileSlaved, "Operation not valid while slaved")
	ErrInvalidOperation     = NewError(CodeInvalidOperation, "Invalid operation")
	ErrActionNotImplemented = NewError(CodeActionNotImplemented, "Action not implemented")
	ErrOperationCancelled   = NewError(CodeOperationCancelled, "Operation cancelled")
	ErrUnspecified          = NewError(CodeUnspecified, "Unspecified error")
)

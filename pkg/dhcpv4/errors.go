package dhcpv4

import "errors"

// Decode failure kinds. Every malformed input maps onto exactly one of
// these sentinels; callers match with errors.Is. Decoding never panics
// on network input.
var (
	// ErrTruncated — the buffer ends before a required field or a
	// declared option length is satisfied.
	ErrTruncated = errors.New("truncated packet")

	// ErrBadMagicCookie — the 4 bytes after the fixed header are not
	// 63 82 53 63.
	ErrBadMagicCookie = errors.New("bad magic cookie")

	// ErrInvalidOpcode — the op field is neither BOOTREQUEST nor BOOTREPLY.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrUnsupportedHardwareType — htype is not Ethernet.
	ErrUnsupportedHardwareType = errors.New("unsupported hardware type")

	// ErrInvalidFlags — the flags field is neither 0x8000 nor 0x0000.
	ErrInvalidFlags = errors.New("invalid flags")

	// ErrInvalidOptionLength — a declared option length violates the
	// option's fixed width, minimum, or alignment rule.
	ErrInvalidOptionLength = errors.New("invalid option length")

	// ErrInvalidMessageType — option 53 carries a byte outside 1–9.
	ErrInvalidMessageType = errors.New("invalid message type")

	// ErrInvalidOptionValue — an option value is out of its allowed range.
	ErrInvalidOptionValue = errors.New("invalid option value")

	// ErrInvalidEncoding — a text option is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid text encoding")
)

// ErrorKind returns a short stable label for a decode error, suitable
// for metrics. Unrecognized errors map to "other".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrBadMagicCookie):
		return "bad_magic_cookie"
	case errors.Is(err, ErrInvalidOpcode):
		return "invalid_opcode"
	case errors.Is(err, ErrUnsupportedHardwareType):
		return "unsupported_hardware_type"
	case errors.Is(err, ErrInvalidFlags):
		return "invalid_flags"
	case errors.Is(err, ErrInvalidOptionLength):
		return "invalid_option_length"
	case errors.Is(err, ErrInvalidMessageType):
		return "invalid_message_type"
	case errors.Is(err, ErrInvalidOptionValue):
		return "invalid_option_value"
	case errors.Is(err, ErrInvalidEncoding):
		return "invalid_encoding"
	default:
		return "other"
	}
}

package dhcpv4

import (
	"encoding/binary"
	"fmt"
	"net"
)

// reader is a cursor over an immutable byte buffer. Every read either
// consumes exactly the requested bytes or fails with ErrTruncated
// carrying the current offset; nothing is read past the end.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// take returns a view of the next n bytes and advances the cursor.
// The view aliases the input buffer; callers that retain data must copy.
func (r *reader) take(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncated, n, r.off, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// bytes returns a copy of the next n bytes.
func (r *reader) bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	cp := make([]byte, n)
	copy(cp, b)
	return cp, nil
}

func (r *reader) skip(n int) error {
	_, err := r.take(n)
	return err
}

func (r *reader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ip4 reads exactly 4 bytes as an IPv4 address.
func (r *reader) ip4() (net.IP, error) {
	b, err := r.take(4)
	if err != nil {
		return nil, err
	}
	return net.IPv4(b[0], b[1], b[2], b[3]).To4(), nil
}

// ip4OrZero reads 4 bytes; an all-zero field means "absent" and
// decodes to nil. Used for the ciaddr/yiaddr/siaddr/giaddr header fields.
func (r *reader) ip4OrZero() (net.IP, error) {
	b, err := r.take(4)
	if err != nil {
		return nil, err
	}
	if b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 0 {
		return nil, nil
	}
	return net.IPv4(b[0], b[1], b[2], b[3]).To4(), nil
}

// mac reads a 6-byte hardware address, independent of the header's
// declared hardware address length.
func (r *reader) mac() (net.HardwareAddr, error) {
	b, err := r.bytes(6)
	if err != nil {
		return nil, err
	}
	return net.HardwareAddr(b), nil
}

// broadcastFlag reads the 2-byte flags field. Only the broadcast bit
// may be set (RFC 2131 §2: remaining bits MUST be zero).
func (r *reader) broadcastFlag() (bool, error) {
	off := r.off
	v, err := r.u16()
	if err != nil {
		return false, err
	}
	switch v {
	case 0x8000:
		return true, nil
	case 0x0000:
		return false, nil
	default:
		return false, fmt.Errorf("%w: 0x%04x at offset %d", ErrInvalidFlags, v, off)
	}
}

package dhcpv4

import (
	"fmt"
	"net"
	"time"
	"unicode/utf8"
)

// Options maps an option code to its decoded value. Pad and End are
// consumed during decoding and never stored; a repeated code keeps the
// last occurrence.
type Options map[OptionCode]Value

// Get returns the value for an option code.
func (opts Options) Get(code OptionCode) (Value, bool) {
	v, ok := opts[code]
	return v, ok
}

// Has returns true if the option is present.
func (opts Options) Has(code OptionCode) bool {
	_, ok := opts[code]
	return ok
}

// decodeOptions parses the TLV option stream following the magic
// cookie (RFC 2132). The stream ends at an End option or at
// end-of-buffer, whichever comes first; a missing End is tolerated and
// bytes after End are ignored. The first malformed option aborts the
// whole decode.
func decodeOptions(r *reader) (Options, error) {
	opts := make(Options)
	for r.remaining() > 0 {
		raw, err := r.u8()
		if err != nil {
			return nil, err
		}
		code := OptionCode(raw)

		// Pad (RFC 2132 §3.1) and End (§3.2) have no length byte.
		if code == OptionPad {
			continue
		}
		if code == OptionEnd {
			break
		}

		v, err := decodeOptionValue(code, r)
		if err != nil {
			return nil, fmt.Errorf("option %d (%s): %w", raw, code, err)
		}
		opts[code] = v
	}
	return opts, nil
}

// decodeOptionValue reads one option body (length byte plus value
// bytes) positioned just after the code byte, and interprets it
// according to the option's type rule.
func decodeOptionValue(code OptionCode, r *reader) (Value, error) {
	length, err := r.u8()
	if err != nil {
		return nil, err
	}
	data, err := r.take(int(length))
	if err != nil {
		return nil, err
	}

	switch code {
	case OptionSubnetMask:
		v, err := fixedU32(data)
		if err != nil {
			return nil, err
		}
		return SubnetMask(v), nil

	case OptionRouter, OptionDomainNameServer:
		return decodeIPList(data)

	case OptionHostname, OptionDomainName, OptionVendorClassID:
		return decodeText(data)

	case OptionInterfaceMTU:
		v, err := fixedU16(data)
		if err != nil {
			return nil, err
		}
		return MTU(v), nil

	case OptionBroadcastAddress, OptionServerIdentifier:
		if len(data) != 4 {
			return nil, fmt.Errorf("%w: expected 4 bytes, got %d", ErrInvalidOptionLength, len(data))
		}
		return IP{net.IPv4(data[0], data[1], data[2], data[3]).To4()}, nil

	case OptionIPLeaseTime, OptionRenewalTime, OptionRebindingTime:
		v, err := fixedU32(data)
		if err != nil {
			return nil, err
		}
		return Seconds(time.Duration(v) * time.Second), nil

	case OptionDHCPMessageType:
		return decodeMessageType(data)

	case OptionMaxDHCPMessageSize:
		v, err := fixedU16(data)
		if err != nil {
			return nil, err
		}
		if v < MinMaxMessageSize {
			return nil, fmt.Errorf("%w: max message size %d below %d", ErrInvalidOptionValue, v, MinMaxMessageSize)
		}
		return MaxMessageSize(v), nil

	case OptionClientIdentifier:
		// RFC 2132 §9.14 — type byte plus at least 2 bytes of identifier.
		if len(data) <= 2 {
			return nil, fmt.Errorf("%w: client identifier needs more than 2 bytes, got %d", ErrInvalidOptionLength, len(data))
		}
		return Bytes(append([]byte(nil), data...)), nil

	case OptionRapidCommit:
		if len(data) != 0 {
			return nil, fmt.Errorf("%w: rapid commit carries no data, got %d bytes", ErrInvalidOptionLength, len(data))
		}
		return RapidCommit{}, nil

	case OptionForceRenewNonceCapable:
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: nonce capability list is empty", ErrInvalidOptionLength)
		}
		algos := make(NonceAlgorithms, len(data))
		for i, b := range data {
			algos[i] = NonceAlgorithm(b)
		}
		return algos, nil

	case OptionParameterRequestList:
		codes := make(OptionCodeList, len(data))
		for i, b := range data {
			codes[i] = OptionCode(b)
		}
		return codes, nil

	case OptionDomainSearch:
		// RFC 3397 compressed name data, kept opaque.
		return Bytes(append([]byte(nil), data...)), nil

	default:
		return Unknown{Code: code, Data: append([]byte(nil), data...)}, nil
	}
}

func fixedU16(data []byte) (uint16, error) {
	if len(data) != 2 {
		return 0, fmt.Errorf("%w: expected 2 bytes, got %d", ErrInvalidOptionLength, len(data))
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

func fixedU32(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("%w: expected 4 bytes, got %d", ErrInvalidOptionLength, len(data))
	}
	return uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]), nil
}

func decodeIPList(data []byte) (IPList, error) {
	if len(data) < 4 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: IP list length %d not a positive multiple of 4", ErrInvalidOptionLength, len(data))
	}
	ips := make(IPList, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		ips = append(ips, net.IPv4(data[i], data[i+1], data[i+2], data[i+3]).To4())
	}
	return ips, nil
}

func decodeText(data []byte) (Text, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty text option", ErrInvalidOptionLength)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text option is not valid UTF-8", ErrInvalidEncoding)
	}
	return Text(data), nil
}

func decodeMessageType(data []byte) (MessageType, error) {
	if len(data) != 1 {
		return 0, fmt.Errorf("%w: expected 1 byte, got %d", ErrInvalidOptionLength, len(data))
	}
	m := MessageType(data[0])
	if m < MessageTypeDiscover || m > MessageTypeForceRenew {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMessageType, data[0])
	}
	return m, nil
}

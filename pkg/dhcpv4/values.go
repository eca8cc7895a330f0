package dhcpv4

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Value is a decoded option value. The concrete types below form a
// closed set, one per option payload shape; all render via String for
// the packet summary.
type Value interface {
	fmt.Stringer
}

// Text is a UTF-8 string option (hostname, domain name, vendor class id).
type Text string

func (t Text) String() string { return string(t) }

// Bytes is an opaque byte blob (client identifier, domain-search data).
type Bytes []byte

func (b Bytes) String() string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, " ")
}

// Unknown is the payload of an option with no named decode rule,
// tagged with its raw code.
type Unknown struct {
	Code OptionCode
	Data Bytes
}

func (u Unknown) String() string {
	return fmt.Sprintf("(%02x) %s", byte(u.Code), u.Data)
}

// IP is a single IPv4 address option (broadcast address, server id).
type IP struct{ net.IP }

func (v IP) String() string { return v.IP.String() }

// IPList is an ordered list of IPv4 addresses (routers, DNS servers).
type IPList []net.IP

func (l IPList) String() string {
	parts := make([]string, len(l))
	for i, ip := range l {
		parts[i] = ip.String()
	}
	return strings.Join(parts, ", ")
}

// SubnetMask is option 1, kept as the raw 32-bit mask.
type SubnetMask uint32

func (m SubnetMask) String() string { return fmt.Sprintf("0x%08x", uint32(m)) }

// Mask converts to a net.IPMask.
func (m SubnetMask) Mask() net.IPMask {
	return net.IPv4Mask(byte(m>>24), byte(m>>16), byte(m>>8), byte(m))
}

// MTU is option 26.
type MTU uint16

func (m MTU) String() string { return fmt.Sprintf("%d", uint16(m)) }

// MaxMessageSize is option 57, already validated to be >= 576.
type MaxMessageSize uint16

func (m MaxMessageSize) String() string { return fmt.Sprintf("%d", uint16(m)) }

// Seconds is a whole-second duration option (lease time, T1, T2).
type Seconds time.Duration

func (s Seconds) String() string {
	return fmt.Sprintf("%ds", int64(time.Duration(s)/time.Second))
}

// Duration converts to a time.Duration.
func (s Seconds) Duration() time.Duration { return time.Duration(s) }

// NonceAlgorithm is one algorithm id from option 145 (RFC 6704).
type NonceAlgorithm byte

func (a NonceAlgorithm) String() string {
	if a == 1 {
		return "HMAC-MD5"
	}
	return fmt.Sprintf("Other(%d)", byte(a))
}

// NonceAlgorithms is the option 145 value, one algorithm id per byte.
type NonceAlgorithms []NonceAlgorithm

func (l NonceAlgorithms) String() string {
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// OptionCodeList is the parameter request list (option 55).
type OptionCodeList []OptionCode

func (l OptionCodeList) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// RapidCommit is option 80 (RFC 4039); it carries no data.
type RapidCommit struct{}

func (RapidCommit) String() string { return "Rapid Commit" }

package dhcpv4

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Packet is a decoded BOOTP/DHCPv4 datagram (RFC 2131 §2). It is an
// immutable value: every field is copied out of the input buffer
// during Decode, so a Packet outlives the buffer it was decoded from.
type Packet struct {
	Op        OpCode           // 1=BOOTREQUEST, 2=BOOTREPLY
	HType     HardwareType     // Hardware address type (always Ethernet)
	HLen      byte             // Declared hardware address length
	Hops      byte             // Relay hops
	XID       uint32           // Transaction ID
	Secs      time.Duration    // Seconds elapsed since client began acquisition
	Broadcast bool             // Broadcast flag (RFC 2131 §4.1)
	CIAddr    net.IP           // Client IP address, nil if the field was all-zero
	YIAddr    net.IP           // 'Your' (client) IP address, nil if all-zero
	SIAddr    net.IP           // Next server IP address, nil if all-zero
	GIAddr    net.IP           // Relay agent IP address, nil if all-zero
	CHAddr    net.HardwareAddr // Client hardware address (first 6 bytes of chaddr)
	Options   Options          // Decoded options, Pad/End excluded
}

// Decode parses a raw BOOTP/DHCPv4 datagram. It consumes the 236-byte
// fixed header and the 4-byte magic cookie, then the TLV option
// stream. The first invalid byte aborts the decode with an error
// matchable against the Err* sentinels; there is no partial result.
// Decode is pure and reentrant — concurrent calls on distinct buffers
// need no locking.
func Decode(data []byte) (*Packet, error) {
	r := newReader(data)
	p := &Packet{}

	op, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch OpCode(op) {
	case OpCodeBootRequest, OpCodeBootReply:
		p.Op = OpCode(op)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidOpcode, op)
	}

	htype, err := r.u8()
	if err != nil {
		return nil, err
	}
	if HardwareType(htype) != HardwareTypeEthernet {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedHardwareType, htype)
	}
	p.HType = HardwareTypeEthernet

	if p.HLen, err = r.u8(); err != nil {
		return nil, err
	}
	if p.Hops, err = r.u8(); err != nil {
		return nil, err
	}
	if p.XID, err = r.u32(); err != nil {
		return nil, err
	}
	secs, err := r.u16()
	if err != nil {
		return nil, err
	}
	p.Secs = time.Duration(secs) * time.Second

	if p.Broadcast, err = r.broadcastFlag(); err != nil {
		return nil, err
	}

	if p.CIAddr, err = r.ip4OrZero(); err != nil {
		return nil, err
	}
	if p.YIAddr, err = r.ip4OrZero(); err != nil {
		return nil, err
	}
	if p.SIAddr, err = r.ip4OrZero(); err != nil {
		return nil, err
	}
	if p.GIAddr, err = r.ip4OrZero(); err != nil {
		return nil, err
	}

	// chaddr is a 16-byte region; only the first 6 bytes carry the MAC,
	// the remaining 10 are padding.
	if p.CHAddr, err = r.mac(); err != nil {
		return nil, err
	}
	if err = r.skip(10); err != nil {
		return nil, err
	}

	// Legacy BOOTP sname (64) and file (128) fields carry no decoded value.
	if err = r.skip(192); err != nil {
		return nil, err
	}

	cookie, err := r.take(4)
	if err != nil {
		return nil, err
	}
	if cookie[0] != MagicCookie[0] || cookie[1] != MagicCookie[1] ||
		cookie[2] != MagicCookie[2] || cookie[3] != MagicCookie[3] {
		return nil, fmt.Errorf("%w: % x", ErrBadMagicCookie, cookie)
	}

	if p.Options, err = decodeOptions(r); err != nil {
		return nil, err
	}
	return p, nil
}

// MessageType returns the DHCP message type from option 53, or 0 when absent.
func (p *Packet) MessageType() MessageType {
	if v, ok := p.Options[OptionDHCPMessageType].(MessageType); ok {
		return v
	}
	return 0
}

// Hostname returns the hostname from option 12.
func (p *Packet) Hostname() string {
	if v, ok := p.Options[OptionHostname].(Text); ok {
		return string(v)
	}
	return ""
}

// VendorClassID returns the vendor class identifier from option 60.
func (p *Packet) VendorClassID() string {
	if v, ok := p.Options[OptionVendorClassID].(Text); ok {
		return string(v)
	}
	return ""
}

// ServerIdentifier returns the server identifier from option 54.
func (p *Packet) ServerIdentifier() net.IP {
	if v, ok := p.Options[OptionServerIdentifier].(IP); ok {
		return v.IP
	}
	return nil
}

// ClientIdentifier returns the raw client identifier from option 61.
func (p *Packet) ClientIdentifier() []byte {
	if v, ok := p.Options[OptionClientIdentifier].(Bytes); ok {
		return v
	}
	return nil
}

// ParameterRequestList returns the requested option codes from option 55.
func (p *Packet) ParameterRequestList() []OptionCode {
	if v, ok := p.Options[OptionParameterRequestList].(OptionCodeList); ok {
		return v
	}
	return nil
}

// DomainSearch returns the raw RFC 3397 domain search data from option 119.
func (p *Packet) DomainSearch() []byte {
	if v, ok := p.Options[OptionDomainSearch].(Bytes); ok {
		return v
	}
	return nil
}

// LeaseTime returns the lease duration from option 51, or 0 when absent.
func (p *Packet) LeaseTime() time.Duration {
	if v, ok := p.Options[OptionIPLeaseTime].(Seconds); ok {
		return v.Duration()
	}
	return 0
}

// IsRelayed returns true if the packet passed through a relay agent.
func (p *Packet) IsRelayed() bool {
	return p.GIAddr != nil
}

// Summary renders a short human-readable description of the packet.
// Missing options degrade to placeholder text; rendering never fails.
func (p *Packet) Summary() string {
	msgType := "Message type missing"
	if v, ok := p.Options[OptionDHCPMessageType]; ok {
		msgType = v.String()
	}
	hostname := "No hostname"
	if v, ok := p.Options[OptionHostname]; ok {
		hostname = v.String()
	}
	mask := "No subnet mask"
	if v, ok := p.Options[OptionSubnetMask]; ok {
		mask = v.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Message Type: %s\n", msgType)
	fmt.Fprintf(&b, "Host name: %s\n", hostname)
	fmt.Fprintf(&b, "Subnet mask: %s\n", mask)
	fmt.Fprintf(&b, "xid: %x", p.XID)
	return b.String()
}

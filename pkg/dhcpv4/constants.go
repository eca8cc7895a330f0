// Package dhcpv4 decodes raw BOOTP/DHCPv4 datagrams (RFC 951 framing,
// RFC 2132 options) into typed, immutable packet values.
package dhcpv4

// DHCP Message Types (RFC 2131 §9.6, plus FORCERENEW from RFC 3203)
type MessageType byte

const (
	MessageTypeDiscover   MessageType = 1 // DHCPDISCOVER
	MessageTypeOffer      MessageType = 2 // DHCPOFFER
	MessageTypeRequest    MessageType = 3 // DHCPREQUEST
	MessageTypeDecline    MessageType = 4 // DHCPDECLINE
	MessageTypeAck        MessageType = 5 // DHCPACK
	MessageTypeNak        MessageType = 6 // DHCPNAK
	MessageTypeRelease    MessageType = 7 // DHCPRELEASE
	MessageTypeInform     MessageType = 8 // DHCPINFORM
	MessageTypeForceRenew MessageType = 9 // DHCPFORCERENEW
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeDiscover:
		return "Discover"
	case MessageTypeOffer:
		return "Offer"
	case MessageTypeRequest:
		return "Request"
	case MessageTypeDecline:
		return "Decline"
	case MessageTypeAck:
		return "Ack"
	case MessageTypeNak:
		return "Nak"
	case MessageTypeRelease:
		return "Release"
	case MessageTypeInform:
		return "Inform"
	case MessageTypeForceRenew:
		return "Force Renew"
	default:
		return "Unknown"
	}
}

// DHCP Op Codes (RFC 2131 §2)
type OpCode byte

const (
	OpCodeBootRequest OpCode = 1 // BOOTREQUEST
	OpCodeBootReply   OpCode = 2 // BOOTREPLY
)

func (o OpCode) String() string {
	switch o {
	case OpCodeBootRequest:
		return "BOOTREQUEST"
	case OpCodeBootReply:
		return "BOOTREPLY"
	default:
		return "UNKNOWN"
	}
}

// Hardware Types (RFC 1700). Only Ethernet is decoded.
type HardwareType byte

const (
	HardwareTypeEthernet HardwareType = 1
)

// OptionCode identifies a DHCP option (RFC 2132 and extensions).
// Every byte value is a valid code; codes without a named constant are
// carried through decoding as-is and render as "Unknown Parameter".
type OptionCode byte

const (
	OptionPad                    OptionCode = 0
	OptionSubnetMask             OptionCode = 1
	OptionRouter                 OptionCode = 3
	OptionDomainNameServer       OptionCode = 6
	OptionHostname               OptionCode = 12
	OptionDomainName             OptionCode = 15
	OptionInterfaceMTU           OptionCode = 26
	OptionBroadcastAddress       OptionCode = 28
	OptionIPLeaseTime            OptionCode = 51
	OptionDHCPMessageType        OptionCode = 53
	OptionServerIdentifier       OptionCode = 54
	OptionParameterRequestList   OptionCode = 55
	OptionMaxDHCPMessageSize     OptionCode = 57
	OptionRenewalTime            OptionCode = 58
	OptionRebindingTime          OptionCode = 59
	OptionVendorClassID          OptionCode = 60
	OptionClientIdentifier       OptionCode = 61
	OptionRapidCommit            OptionCode = 80
	OptionDomainSearch           OptionCode = 119
	OptionForceRenewNonceCapable OptionCode = 145
	OptionEnd                    OptionCode = 255
)

// optionNames maps known option codes to display names.
var optionNames = map[OptionCode]string{
	OptionPad:                    "Pad",
	OptionSubnetMask:             "Subnet Mask",
	OptionRouter:                 "Router",
	OptionDomainNameServer:       "DNS Server",
	OptionHostname:               "Host Name",
	OptionDomainName:             "Domain Name",
	OptionInterfaceMTU:           "Interface MTU",
	OptionBroadcastAddress:       "Broadcast Address",
	OptionIPLeaseTime:            "Lease Time",
	OptionDHCPMessageType:        "Message Type",
	OptionServerIdentifier:       "Server ID",
	OptionParameterRequestList:   "Parameter Request List",
	OptionMaxDHCPMessageSize:     "Maximum Message Size",
	OptionRenewalTime:            "Renewal Interval",
	OptionRebindingTime:          "Rebinding Interval",
	OptionVendorClassID:          "Vendor Class ID",
	OptionClientIdentifier:       "Client Identifier",
	OptionRapidCommit:            "Rapid Commit",
	OptionDomainSearch:           "Domain Search",
	OptionForceRenewNonceCapable: "Force Renew Nonce Capable",
	OptionEnd:                    "End",
}

func (c OptionCode) String() string {
	if name, ok := optionNames[c]; ok {
		return name
	}
	return "Unknown Parameter"
}

// Known reports whether the code has a named decode rule.
func (c OptionCode) Known() bool {
	_, ok := optionNames[c]
	return ok
}

// DHCP Packet Size Limits
const (
	// FixedHeaderSize is the BOOTP fixed header (236 bytes) plus the
	// 4-byte magic cookie.
	FixedHeaderSize = 240
	MaxPacketSize   = 1500 // Maximum DHCP packet size (Ethernet MTU)

	// MinMaxMessageSize is the smallest legal value for option 57
	// (RFC 2132 §9.10 — the minimum legal IP datagram size).
	MinMaxMessageSize = 576
)

// DHCP Ports
const (
	ServerPort = 67
	ClientPort = 68
)

// MagicCookie separates the BOOTP fixed header from the DHCP option
// area (RFC 2131 §3).
var MagicCookie = []byte{99, 130, 83, 99}

package dhcpv4

import (
	"net"
	"testing"
	"time"
)

func TestValueStrings(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"Text", Text("myhost"), "myhost"},
		{"Bytes", Bytes{0xDE, 0xAD, 0xBE}, "de ad be"},
		{"Unknown", Unknown{Code: 200, Data: Bytes{0x01, 0x02}}, "(c8) 01 02"},
		{"IP", IP{net.IPv4(10, 0, 0, 1).To4()}, "10.0.0.1"},
		{"IPList", IPList{net.IPv4(8, 8, 8, 8).To4(), net.IPv4(1, 1, 1, 1).To4()}, "8.8.8.8, 1.1.1.1"},
		{"SubnetMask", SubnetMask(0xFFFFFF00), "0xffffff00"},
		{"MTU", MTU(1500), "1500"},
		{"MaxMessageSize", MaxMessageSize(576), "576"},
		{"Seconds", Seconds(90 * time.Second), "90s"},
		{"NonceAlgorithms", NonceAlgorithms{1, 3}, "HMAC-MD5, Other(3)"},
		{"OptionCodeList", OptionCodeList{OptionSubnetMask, OptionRouter}, "Subnet Mask Router"},
		{"OptionCodeListUnknown", OptionCodeList{OptionCode(200)}, "Unknown Parameter"},
		{"RapidCommit", RapidCommit{}, "Rapid Commit"},
		{"MessageType", MessageTypeNak, "Nak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubnetMaskMask(t *testing.T) {
	m := SubnetMask(0xFFFFFF00).Mask()
	if ones, bits := m.Size(); ones != 24 || bits != 32 {
		t.Errorf("Mask().Size() = %d/%d, want 24/32", ones, bits)
	}
}

func TestMessageTypeStringUnknown(t *testing.T) {
	if got := MessageType(0).String(); got != "Unknown" {
		t.Errorf("MessageType(0).String() = %q, want Unknown", got)
	}
	if got := MessageType(10).String(); got != "Unknown" {
		t.Errorf("MessageType(10).String() = %q, want Unknown", got)
	}
}

package monitor

import (
	"bytes"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dhcpwatch/dhcpwatch/internal/observe"
	"github.com/dhcpwatch/dhcpwatch/internal/sightings"
	"github.com/dhcpwatch/dhcpwatch/pkg/dhcpv4"
)

func testMonitor(t *testing.T) (*Monitor, *observe.Store, *sightings.Tracker, *bytes.Buffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
	devices, err := observe.NewStore(db, logger)
	if err != nil {
		t.Fatal(err)
	}
	servers, err := sightings.NewTracker(db, []net.IP{net.IPv4(192, 168, 1, 1).To4()}, logger)
	if err != nil {
		t.Fatal(err)
	}

	m := New(Options{BindAddress: ":0"}, devices, servers, logger)
	out := new(bytes.Buffer)
	m.out = out
	return m, devices, servers, out
}

// buildRequest builds a DHCPDISCOVER with hostname and vendor class.
func buildRequest(t *testing.T) []byte {
	t.Helper()
	pkt := make([]byte, 240)
	pkt[0] = byte(dhcpv4.OpCodeBootRequest)
	pkt[1] = byte(dhcpv4.HardwareTypeEthernet)
	pkt[2] = 6
	copy(pkt[28:34], []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	copy(pkt[236:240], dhcpv4.MagicCookie)
	return append(pkt,
		byte(dhcpv4.OptionDHCPMessageType), 1, byte(dhcpv4.MessageTypeDiscover),
		byte(dhcpv4.OptionHostname), 6, 'm', 'y', 'h', 'o', 's', 't',
		byte(dhcpv4.OptionVendorClassID), 8, 'M', 'S', 'F', 'T', ' ', '5', '.', '0',
		byte(dhcpv4.OptionEnd),
	)
}

func TestProcessRequestRecordsDevice(t *testing.T) {
	m, devices, _, out := testMonitor(t)

	src := &net.UDPAddr{IP: net.IPv4(0, 0, 0, 0), Port: 68}
	m.process(buildRequest(t), src, "eth0")

	if devices.Count() != 1 {
		t.Fatalf("device count = %d, want 1", devices.Count())
	}
	d := devices.Get("00:11:22:33:44:55")
	if d == nil || d.Hostname != "myhost" || d.OS != "Windows" {
		t.Errorf("device = %+v", d)
	}
	if !strings.Contains(out.String(), "Host name: myhost") {
		t.Errorf("summary output missing hostname:\n%s", out.String())
	}
}

func TestProcessReplyRecordsServer(t *testing.T) {
	m, _, servers, _ := testMonitor(t)

	pkt := make([]byte, 240)
	pkt[0] = byte(dhcpv4.OpCodeBootReply)
	pkt[1] = byte(dhcpv4.HardwareTypeEthernet)
	pkt[2] = 6
	copy(pkt[16:20], []byte{192, 168, 1, 100}) // yiaddr: offered IP
	copy(pkt[28:34], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	copy(pkt[236:240], dhcpv4.MagicCookie)
	data := append(pkt,
		byte(dhcpv4.OptionDHCPMessageType), 1, byte(dhcpv4.MessageTypeOffer),
		byte(dhcpv4.OptionServerIdentifier), 4, 192, 168, 1, 1,
		byte(dhcpv4.OptionEnd),
	)

	src := &net.UDPAddr{IP: net.IPv4(192, 168, 1, 1), Port: 67}
	m.process(data, src, "eth0")

	if servers.Count() != 1 {
		t.Fatalf("server count = %d, want 1", servers.Count())
	}
	srv := servers.All()[0]
	if srv.IP != "192.168.1.1" || !srv.Expected {
		t.Errorf("server = %+v", srv)
	}
	if srv.LastOffer != "192.168.1.100" {
		t.Errorf("LastOffer = %q, want 192.168.1.100", srv.LastOffer)
	}
}

func TestProcessMalformedPacket(t *testing.T) {
	m, devices, servers, out := testMonitor(t)

	src := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 68}
	m.process([]byte{0x01, 0x02, 0x03}, src, "eth0")

	if devices.Count() != 0 || servers.Count() != 0 {
		t.Error("malformed packet must not be recorded")
	}
	if out.Len() != 0 {
		t.Errorf("malformed packet must not produce a summary, got:\n%s", out.String())
	}
}

func TestDescribeExpandsDomainSearch(t *testing.T) {
	m, _, _, _ := testMonitor(t)

	raw := []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	data := buildRequest(t)
	// Re-append with a domain search option before End.
	data = data[:len(data)-1]
	data = append(data, byte(dhcpv4.OptionDomainSearch), byte(len(raw)))
	data = append(data, raw...)
	data = append(data, byte(dhcpv4.OptionEnd))

	pkt, err := dhcpv4.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	s := m.describe(pkt)
	if !strings.Contains(s, "Search domains: example.com") {
		t.Errorf("describe missing search domains:\n%s", s)
	}
}

// Package monitor implements the passive DHCP listen loop. It binds
// the server port, decodes every datagram it sees, logs a summary,
// and feeds the observation stores. It never sends a packet.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/dhcpwatch/dhcpwatch/internal/metrics"
	"github.com/dhcpwatch/dhcpwatch/internal/observe"
	"github.com/dhcpwatch/dhcpwatch/internal/sightings"
	"github.com/dhcpwatch/dhcpwatch/pkg/dhcpv4"
)

// bufferPool reuses receive buffers across datagrams.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, dhcpv4.MaxPacketSize)
	},
}

// Monitor is the passive DHCP listener.
type Monitor struct {
	addr       string
	iface      string
	logOptions bool

	conn    *ipv4.PacketConn
	udp     *net.UDPConn
	devices *observe.Store
	servers *sightings.Tracker
	logger  *slog.Logger
	out     io.Writer
	wg      sync.WaitGroup
	done    chan struct{}
}

// Options configures a Monitor.
type Options struct {
	BindAddress string
	Interface   string
	LogOptions  bool
}

// New creates a monitor. devices and servers may be nil when
// persistence is disabled.
func New(opts Options, devices *observe.Store, servers *sightings.Tracker, logger *slog.Logger) *Monitor {
	addr := opts.BindAddress
	if addr == "" {
		addr = fmt.Sprintf(":%d", dhcpv4.ServerPort)
	}
	return &Monitor{
		addr:       addr,
		iface:      opts.Interface,
		logOptions: opts.LogOptions,
		devices:    devices,
		servers:    servers,
		logger:     logger,
		out:        os.Stdout,
		done:       make(chan struct{}),
	}
}

// Start binds the UDP socket and launches the receive loop.
func (m *Monitor) Start(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp4", m.addr)
	if err != nil {
		return fmt.Errorf("resolving UDP address %s: %w", m.addr, err)
	}

	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", m.addr, err)
	}
	m.udp = conn
	m.conn = ipv4.NewPacketConn(conn)

	// Receiving-interface tagging; not supported everywhere, so a
	// failure only disables the tag.
	if err := m.conn.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		m.logger.Debug("interface control messages unavailable", "error", err)
	}

	m.logger.Info("dhcpwatch listening",
		"address", m.addr,
		"interface", m.iface)

	m.wg.Add(1)
	go m.serve(ctx)
	return nil
}

// serve is the receive loop.
func (m *Monitor) serve(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		default:
		}

		buf := bufferPool.Get().([]byte)
		n, cm, src, err := m.conn.ReadFrom(buf)
		if err != nil {
			bufferPool.Put(buf)
			select {
			case <-m.done:
				return
			case <-ctx.Done():
				return
			default:
			}
			m.logger.Error("reading UDP packet", "error", err)
			continue
		}

		iface := m.iface
		if cm != nil && cm.IfIndex > 0 {
			if ifi, err := net.InterfaceByIndex(cm.IfIndex); err == nil {
				iface = ifi.Name
			}
		}

		m.process(buf[:n], src, iface)
		bufferPool.Put(buf)
	}
}

// process decodes and reports a single datagram.
func (m *Monitor) process(data []byte, src net.Addr, iface string) {
	metrics.BytesObserved.Add(float64(len(data)))

	start := time.Now()
	pkt, err := dhcpv4.Decode(data)
	metrics.DecodeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.DecodeErrors.WithLabelValues(dhcpv4.ErrorKind(err)).Inc()
		m.logger.Warn("dropping malformed packet",
			"error", err,
			"src", src.String(),
			"size", len(data))
		return
	}

	metrics.PacketsObserved.WithLabelValues(pkt.Op.String(), pkt.MessageType().String()).Inc()

	m.logger.Info("packet observed",
		"op", pkt.Op.String(),
		"msg_type", pkt.MessageType().String(),
		"mac", pkt.CHAddr.String(),
		"src", src.String(),
		"interface", iface,
		"xid", fmt.Sprintf("%x", pkt.XID))
	fmt.Fprintf(m.out, "%s\n\n", m.describe(pkt))

	if m.logOptions {
		m.logOptionValues(pkt)
	}

	switch pkt.Op {
	case dhcpv4.OpCodeBootRequest:
		m.recordDevice(pkt)
	case dhcpv4.OpCodeBootReply:
		m.recordServer(pkt, src)
	}
}

// describe renders the packet summary, expanding the domain search
// option into names when present.
func (m *Monitor) describe(pkt *dhcpv4.Packet) string {
	s := pkt.Summary()
	if raw := pkt.DomainSearch(); raw != nil {
		if names, err := DomainSearchList(raw); err == nil && len(names) > 0 {
			s += "\nSearch domains: " + strings.Join(names, ", ")
		}
	}
	return s
}

// logOptionValues logs every decoded option, sorted by code.
func (m *Monitor) logOptionValues(pkt *dhcpv4.Packet) {
	codes := make([]dhcpv4.OptionCode, 0, len(pkt.Options))
	for c := range pkt.Options {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	for _, c := range codes {
		m.logger.Info("option",
			"code", int(c),
			"name", c.String(),
			"value", pkt.Options[c].String())
	}
}

// recordDevice feeds a client request into the device store.
func (m *Monitor) recordDevice(pkt *dhcpv4.Packet) {
	if m.devices == nil {
		return
	}
	m.devices.Record(&observe.Observation{
		MAC:         pkt.CHAddr,
		Hostname:    pkt.Hostname(),
		VendorClass: pkt.VendorClassID(),
		ParamList:   pkt.ParameterRequestList(),
		MessageType: pkt.MessageType(),
	})
	metrics.DevicesKnown.Set(float64(m.devices.Count()))
}

// recordServer feeds an observed reply into the sighting tracker.
func (m *Monitor) recordServer(pkt *dhcpv4.Packet, src net.Addr) {
	if m.servers == nil {
		return
	}

	serverIP := pkt.ServerIdentifier()
	if serverIP == nil {
		serverIP = pkt.SIAddr
	}
	if serverIP == nil {
		if udp, ok := src.(*net.UDPAddr); ok {
			serverIP = udp.IP.To4()
		}
	}
	if serverIP == nil {
		return
	}

	if expected := m.servers.ReportReply(serverIP, pkt.YIAddr, pkt.CHAddr); !expected {
		metrics.UnexpectedServers.Inc()
	}
	metrics.ServersKnown.Set(float64(m.servers.Count()))
}

// Stop shuts the monitor down and waits for the loop to drain.
func (m *Monitor) Stop() {
	close(m.done)
	if m.udp != nil {
		m.udp.Close()
	}
	m.wg.Wait()
	m.logger.Info("dhcpwatch stopped")
}

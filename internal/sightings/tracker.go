// Package sightings tracks the DHCP servers observed answering on the
// network. Replies from servers not on the configured expected list
// are escalated, since an unexpected answering server is usually a
// misconfiguration or a rogue device.
package sightings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketServers = []byte("servers")

// Server is one DHCP server seen answering clients.
type Server struct {
	IP         string    `json:"ip"`
	Expected   bool      `json:"expected"`
	LastOffer  string    `json:"last_offer_ip,omitempty"`
	LastClient string    `json:"last_client_mac,omitempty"`
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	Replies    int       `json:"replies"`
}

// Tracker records server sightings, persisted in BoltDB.
type Tracker struct {
	db       *bolt.DB
	logger   *slog.Logger
	expected map[string]bool
	mu       sync.RWMutex
	known    map[string]*Server
}

// NewTracker opens the servers bucket and loads persisted sightings.
func NewTracker(db *bolt.DB, expected []net.IP, logger *slog.Logger) (*Tracker, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketServers)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating servers bucket: %w", err)
	}

	exp := make(map[string]bool, len(expected))
	for _, ip := range expected {
		exp[ip.String()] = true
	}

	tr := &Tracker{
		db:       db,
		logger:   logger,
		expected: exp,
		known:    make(map[string]*Server),
	}
	if err := tr.loadAll(); err != nil {
		return nil, fmt.Errorf("loading server sightings: %w", err)
	}
	return tr, nil
}

// ReportReply records one observed BOOTREPLY. serverIP is the server
// identifier option, or the siaddr/source fallback; offeredIP and
// clientMAC may be nil. Returns true if the server is on the expected list.
func (tr *Tracker) ReportReply(serverIP, offeredIP net.IP, clientMAC net.HardwareAddr) bool {
	sip := serverIP.String()
	now := time.Now()

	tr.mu.Lock()

	srv, seen := tr.known[sip]
	if !seen {
		srv = &Server{
			IP:        sip,
			Expected:  tr.expected[sip],
			FirstSeen: now,
		}
		tr.known[sip] = srv
	}
	srv.LastSeen = now
	srv.Replies++
	if offeredIP != nil {
		srv.LastOffer = offeredIP.String()
	}
	if clientMAC != nil {
		srv.LastClient = clientMAC.String()
	}
	expected := srv.Expected
	replies := srv.Replies
	tr.persist(srv)
	tr.mu.Unlock()

	if expected {
		return true
	}

	if !seen {
		tr.logger.Error("unexpected DHCP server detected",
			"server_ip", sip,
			"offered_ip", offeredIP,
			"client_mac", clientMAC)
	} else {
		tr.logger.Warn("unexpected DHCP server activity",
			"server_ip", sip,
			"offered_ip", offeredIP,
			"client_mac", clientMAC,
			"replies", replies)
	}
	return false
}

// All returns all sighted servers, most recently seen first.
func (tr *Tracker) All() []Server {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	result := make([]Server, 0, len(tr.known))
	for _, s := range tr.known {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastSeen.After(result[j].LastSeen)
	})
	return result
}

// Count returns the number of sighted servers.
func (tr *Tracker) Count() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.known)
}

// UnexpectedCount returns the number of servers not on the expected list.
func (tr *Tracker) UnexpectedCount() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	n := 0
	for _, s := range tr.known {
		if !s.Expected {
			n++
		}
	}
	return n
}

func (tr *Tracker) persist(srv *Server) {
	data, _ := json.Marshal(srv)
	err := tr.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServers).Put([]byte(srv.IP), data)
	})
	if err != nil {
		tr.logger.Warn("persisting server sighting", "server_ip", srv.IP, "error", err)
	}
}

func (tr *Tracker) loadAll() error {
	return tr.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServers).ForEach(func(k, v []byte) error {
			var srv Server
			if err := json.Unmarshal(v, &srv); err == nil {
				tr.known[srv.IP] = &srv
			}
			return nil
		})
	})
}

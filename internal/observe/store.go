// Package observe records the client devices seen by the passive
// monitor. Each decoded request contributes hostname, vendor class and
// parameter-request-list data, which is persisted per MAC and run
// through a small heuristic classifier.
package observe

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dhcpwatch/dhcpwatch/pkg/dhcpv4"
)

var bucketDevices = []byte("devices")

// Device is the accumulated view of one client.
type Device struct {
	MAC         string    `json:"mac"`
	OUI         string    `json:"oui,omitempty"`
	Hostname    string    `json:"hostname,omitempty"`
	VendorClass string    `json:"vendor_class,omitempty"`
	ParamList   string    `json:"param_list,omitempty"`
	LastMessage string    `json:"last_message,omitempty"`
	DeviceType  string    `json:"device_type,omitempty"`
	OS          string    `json:"os,omitempty"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	Packets     int       `json:"packets"`
}

// Observation is one decoded request's worth of fingerprint data.
type Observation struct {
	MAC         net.HardwareAddr
	Hostname    string
	VendorClass string
	ParamList   []dhcpv4.OptionCode
	MessageType dhcpv4.MessageType
}

// paramListString renders the parameter request list as comma-separated
// numeric codes, the conventional fingerprinting form.
func (o *Observation) paramListString() string {
	if len(o.ParamList) == 0 {
		return ""
	}
	parts := make([]string, len(o.ParamList))
	for i, c := range o.ParamList {
		parts[i] = strconv.Itoa(int(c))
	}
	return strings.Join(parts, ",")
}

// Store persists per-device observations in BoltDB with an in-memory
// cache in front.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger
	mu     sync.RWMutex
	cache  map[string]*Device
}

// NewStore opens the devices bucket and loads existing entries.
func NewStore(db *bolt.DB, logger *slog.Logger) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDevices)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating devices bucket: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		cache:  make(map[string]*Device),
	}
	if err := s.loadAll(); err != nil {
		return nil, fmt.Errorf("loading devices: %w", err)
	}
	return s, nil
}

// Record folds an observation into the device table and returns a copy
// of the updated entry.
func (s *Store) Record(o *Observation) *Device {
	mac := o.MAC.String()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.cache[mac]
	if !ok {
		d = &Device{
			MAC:       mac,
			OUI:       ouiFromMAC(o.MAC),
			FirstSeen: now,
		}
		s.cache[mac] = d
	}

	d.LastSeen = now
	d.Packets++
	d.LastMessage = o.MessageType.String()
	if o.Hostname != "" {
		d.Hostname = o.Hostname
	}
	if o.VendorClass != "" {
		d.VendorClass = o.VendorClass
	}
	if pl := o.paramListString(); pl != "" {
		d.ParamList = pl
	}

	classify(d)
	s.persist(d)

	cp := *d
	return &cp
}

// Get returns the device for a MAC address, or nil.
func (s *Store) Get(mac string) *Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.cache[mac]; ok {
		cp := *d
		return &cp
	}
	return nil
}

// All returns all known devices, most recently seen first.
func (s *Store) All() []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Device, 0, len(s.cache))
	for _, d := range s.cache {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastSeen.After(result[j].LastSeen)
	})
	return result
}

// Count returns the number of known devices.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func (s *Store) persist(d *Device) {
	data, _ := json.Marshal(d)
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDevices).Put([]byte(d.MAC), data)
	})
	if err != nil {
		s.logger.Warn("persisting device", "mac", d.MAC, "error", err)
	}
}

func (s *Store) loadAll() error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDevices).ForEach(func(k, v []byte) error {
			var d Device
			if err := json.Unmarshal(v, &d); err == nil {
				s.cache[d.MAC] = &d
			}
			return nil
		})
	})
}

// ouiFromMAC extracts the OUI prefix (first 3 octets) from a MAC address.
func ouiFromMAC(mac net.HardwareAddr) string {
	if len(mac) < 3 {
		return ""
	}
	return fmt.Sprintf("%02x:%02x:%02x", mac[0], mac[1], mac[2])
}

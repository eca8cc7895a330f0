package monitor

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// DomainSearchList expands the raw RFC 3397 domain search option
// (DNS-encoded names, compression pointers allowed) into a list of
// domain names. The decoder core keeps the option opaque; expansion is
// presentation only.
func DomainSearchList(raw []byte) ([]string, error) {
	var names []string
	off := 0
	for off < len(raw) {
		name, next, err := dns.UnpackDomainName(raw, off)
		if err != nil {
			return nil, fmt.Errorf("unpacking domain search name at offset %d: %w", off, err)
		}
		if next <= off {
			return nil, fmt.Errorf("domain search name at offset %d does not advance", off)
		}
		names = append(names, strings.TrimSuffix(name, "."))
		off = next
	}
	return names, nil
}

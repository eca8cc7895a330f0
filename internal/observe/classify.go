package observe

import "strings"

// vendorRule classifies by vendor class identifier prefix/substring.
type vendorRule struct {
	match      string
	prefix     bool
	os         string
	deviceType string
}

var vendorRules = []vendorRule{
	{match: "msft ", prefix: true, os: "Windows", deviceType: "computer"},
	{match: "android-dhcp", prefix: true, os: "Android", deviceType: "phone"},
	{match: "dhcpcd", prefix: true, os: "Linux", deviceType: "computer"},
	{match: "udhcp", os: "Linux (embedded)", deviceType: "embedded"},
	{match: "cisco", deviceType: "network"},
	{match: "aruba", deviceType: "network"},
	{match: "ubnt", deviceType: "network"},
	{match: "ubiquiti", deviceType: "network"},
	{match: "fortinet", deviceType: "network"},
}

// hostRule classifies by hostname prefix/substring.
type hostRule struct {
	match      string
	prefix     bool
	os         string
	deviceType string
}

var hostRules = []hostRule{
	{match: "iphone", prefix: true, os: "iOS/iPadOS", deviceType: "phone"},
	{match: "ipad", prefix: true, os: "iOS/iPadOS", deviceType: "tablet"},
	{match: "macbook", prefix: true, os: "macOS", deviceType: "computer"},
	{match: "imac", prefix: true, os: "macOS", deviceType: "computer"},
	{match: "android-", prefix: true, os: "Android", deviceType: "phone"},
	{match: "printer", deviceType: "printer"},
	{match: "epson", deviceType: "printer"},
	{match: "hikvision", deviceType: "camera"},
	{match: "nvr", deviceType: "camera"},
}

// paramRules match well-known parameter-request-list prefixes
// (option 55 is the strongest passive OS signal).
var paramRules = []struct {
	prefix string
	os     string
}{
	{"1,15,3,6,44,46,47,31,33,121,249,43", "Windows"},
	{"1,3,6,15,119,252", "macOS/iOS"},
	{"1,121,33,3,6,12,15,26,28,51,54,58,59,119", "Linux (NetworkManager)"},
}

// classify fills DeviceType/OS from vendor class, hostname, and
// parameter list heuristics, strongest signal first.
func classify(d *Device) {
	vc := strings.ToLower(d.VendorClass)
	hn := strings.ToLower(d.Hostname)

	for _, r := range vendorRules {
		if (r.prefix && strings.HasPrefix(vc, r.match)) ||
			(!r.prefix && vc != "" && strings.Contains(vc, r.match)) {
			if r.os != "" {
				d.OS = r.os
			}
			d.DeviceType = r.deviceType
			return
		}
	}

	for _, r := range hostRules {
		if (r.prefix && strings.HasPrefix(hn, r.match)) ||
			(!r.prefix && hn != "" && strings.Contains(hn, r.match)) {
			if r.os != "" {
				d.OS = r.os
			}
			d.DeviceType = r.deviceType
			return
		}
	}

	for _, r := range paramRules {
		if d.ParamList != "" && strings.HasPrefix(d.ParamList, r.prefix) {
			d.OS = r.os
			d.DeviceType = "computer"
			return
		}
	}

	if d.DeviceType == "" {
		d.DeviceType = "unknown"
	}
}

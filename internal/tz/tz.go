// Package tz carries the curated IANA zone list behind the /timezone picker.
// Go ships zone data but no way to enumerate it, so the picker works off this
// embedded list; validation of a concrete name goes through time.LoadLocation
// and accepts any zone the runtime knows, listed here or not.
package tz

import (
	"sort"
	"strings"
	"time"
)

var zones = []string{
	"Africa/Cairo", "Africa/Casablanca", "Africa/Johannesburg", "Africa/Lagos",
	"Africa/Nairobi", "Africa/Tunis",
	"America/Anchorage", "America/Argentina/Buenos_Aires", "America/Bogota",
	"America/Chicago", "America/Denver", "America/Halifax", "America/Havana",
	"America/Lima", "America/Los_Angeles", "America/Mexico_City",
	"America/New_York", "America/Phoenix", "America/Santiago",
	"America/Sao_Paulo", "America/St_Johns", "America/Toronto",
	"America/Vancouver",
	"Asia/Almaty", "Asia/Baghdad", "Asia/Bangkok", "Asia/Dubai",
	"Asia/Ho_Chi_Minh", "Asia/Hong_Kong", "Asia/Jakarta", "Asia/Jerusalem",
	"Asia/Kabul", "Asia/Karachi", "Asia/Kathmandu", "Asia/Kolkata",
	"Asia/Kuala_Lumpur", "Asia/Manila", "Asia/Riyadh", "Asia/Seoul",
	"Asia/Shanghai", "Asia/Singapore", "Asia/Taipei", "Asia/Tashkent",
	"Asia/Tbilisi", "Asia/Tehran", "Asia/Tokyo", "Asia/Yerevan",
	"Atlantic/Azores", "Atlantic/Canary", "Atlantic/Reykjavik",
	"Australia/Adelaide", "Australia/Brisbane", "Australia/Darwin",
	"Australia/Melbourne", "Australia/Perth", "Australia/Sydney",
	"Europe/Amsterdam", "Europe/Athens", "Europe/Belgrade", "Europe/Berlin",
	"Europe/Brussels", "Europe/Bucharest", "Europe/Budapest",
	"Europe/Copenhagen", "Europe/Dublin", "Europe/Helsinki", "Europe/Istanbul",
	"Europe/Kyiv", "Europe/Lisbon", "Europe/London", "Europe/Madrid",
	"Europe/Minsk", "Europe/Moscow", "Europe/Oslo", "Europe/Paris",
	"Europe/Prague", "Europe/Riga", "Europe/Rome", "Europe/Sofia",
	"Europe/Stockholm", "Europe/Tallinn", "Europe/Vienna", "Europe/Vilnius",
	"Europe/Warsaw", "Europe/Zurich",
	"Indian/Maldives", "Indian/Mauritius",
	"Pacific/Auckland", "Pacific/Fiji", "Pacific/Guam", "Pacific/Honolulu",
	"UTC",
}

// Regions returns the distinct zone prefixes ("Europe", "Asia", …), sorted.
func Regions() []string {
	seen := map[string]bool{}
	var res []string
	for _, z := range zones {
		region, _, _ := strings.Cut(z, "/")
		if !seen[region] {
			seen[region] = true
			res = append(res, region)
		}
	}
	sort.Strings(res)
	return res
}

// Zones returns the listed zone names under a region, sorted.
func Zones(region string) []string {
	var res []string
	for _, z := range zones {
		if strings.HasPrefix(z, region+"/") {
			res = append(res, z)
		}
	}
	sort.Strings(res)
	return res
}

// IsRegion reports whether name is one of the picker regions.
func IsRegion(name string) bool {
	for _, r := range Regions() {
		if r == name {
			return true
		}
	}
	return false
}

// Valid reports whether the runtime can load the zone.
func Valid(name string) bool {
	if name == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

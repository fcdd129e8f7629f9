// internal/requestinfo/geo.go
//
// Optional IP geolocation from a MaxMind GeoLite2-City database.  When no
// database is configured every lookup returns an empty Geo.

package requestinfo

import (
	"fmt"
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// Geo holds IP-based location hints.  Best-effort: empty when no database
// is open or the address has no match.
type Geo struct {
	CountryISO string `json:"country,omitempty"` // "NZ", "US", ...
	City       string `json:"city,omitempty"`    // English name
}

// cityReader is the part of *geoip2.Reader used here.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
}

// geoReader is a process-wide handle, safe for concurrent reads.
var (
	geoMu     sync.RWMutex
	geoReader cityReader
	geoClose  func() error
)

// InitGeo opens the GeoLite2-City database at dbPath and enables lookups
// in Enrich.  Call it from main before serving.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 DB %s: %w", dbPath, err)
	}
	setGeo(r, r.Close)
	return nil
}

// CloseGeo releases the database opened by InitGeo, if any.
func CloseGeo() error {
	geoMu.Lock()
	closeFn := geoClose
	geoReader, geoClose = nil, nil
	geoMu.Unlock()
	if closeFn == nil {
		return nil
	}
	return closeFn()
}

func setGeo(r cityReader, closeFn func() error) {
	geoMu.Lock()
	geoReader, geoClose = r, closeFn
	geoMu.Unlock()
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	geoMu.RLock()
	r := geoReader
	geoMu.RUnlock()
	if r == nil || ip == nil {
		return Geo{}
	}
	rec, err := r.City(ip)
	if err != nil {
		return Geo{}
	}
	return Geo{
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}

package stamp

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
)

const (
	DefaultZone       = "Asia/Kolkata"
	DefaultProvenance = "CLAUDE_MCP_SERVER"
	SuffixLen         = 8

	// TimeLayout is ISO-8601 with microsecond precision and a numeric offset.
	TimeLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// Stamper issues identifiers, storage suffixes and provenance metadata.
// It holds no mutable state; one instance is shared by every request.
type Stamper struct {
	loc        *time.Location
	provenance string
	now        func() time.Time
}

func New(zone, provenance string) (*Stamper, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	provenance = strings.TrimSpace(provenance)
	if provenance == "" {
		provenance = DefaultProvenance
	}
	return &Stamper{loc: loc, provenance: provenance, now: time.Now}, nil
}

// WithClock returns a copy that reads time from now. Tests use it to pin timestamps.
func (s *Stamper) WithClock(now func() time.Time) *Stamper {
	cp := *s
	cp.now = now
	return &cp
}

func (s *Stamper) NewID() string {
	return uuid.NewString()
}

// Suffix is a short disambiguator for object names. Collisions are not checked.
func (s *Stamper) Suffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:SuffixLen]
}

// Now returns the current time in the reference zone as ISO-8601 with offset.
func (s *Stamper) Now() string {
	return s.now().In(s.loc).Format(TimeLayout)
}

func (s *Stamper) Provenance() string {
	return s.provenance
}

func (s *Stamper) Location() *time.Location {
	return s.loc
}

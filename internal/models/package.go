package models

import "time"

// OfficialPackage is a package record from the official repositories
type OfficialPackage struct {
	Repo        string
	Name        string
	Version     string
	Description string
	Packager    string
	UpstreamURL string

	// LastUpdate is zero when the API omitted the field or sent an
	// unparsable value. LastUpdateRaw then holds the display fallback.
	LastUpdate    time.Time
	LastUpdateRaw string
}

// AURPackage is a package record from the AUR
type AURPackage struct {
	Name          string
	Version       string
	Description   string
	Maintainer    string // empty for orphaned packages
	CoMaintainers []string
	UpstreamURL   string
	OutOfDate     time.Time
	LastModified  time.Time
	NumVotes      float64
	Popularity    float64
}

// Orphaned reports whether the package has no maintainer
func (p *AURPackage) Orphaned() bool {
	return p.Maintainer == ""
}

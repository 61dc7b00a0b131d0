package decode

import (
	"encoding/json"

	"github.com/ralt/archpkg/internal/models"
	"github.com/sirupsen/logrus"
)

// Official builds an OfficialPackage from one element of the official
// search "results" array
func Official(item json.RawMessage, log logrus.FieldLogger) (*models.OfficialPackage, error) {
	f, err := fields(item)
	if err != nil {
		return nil, err
	}

	str := func(key string) string {
		s, err := stringField(f, key)
		if err != nil {
			dataError(log, key, f[key], err)
		}
		return s
	}

	pkg := &models.OfficialPackage{
		Repo:        str("repo"),
		Name:        str("pkgname"),
		Version:     str("pkgver"),
		Description: str("pkgdesc"),
		Packager:    str("packager"),
		UpstreamURL: str("url"),
	}

	if ts := str("last_update"); ts != "" {
		t, err := parseISOTime(ts)
		if err != nil {
			dataError(log, "last_update", f["last_update"], err)
			pkg.LastUpdateRaw = rawTimestamp(ts)
		} else {
			pkg.LastUpdate = t
		}
	}

	return pkg, nil
}

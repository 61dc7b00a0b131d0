package decode

import (
	"encoding/json"
	"fmt"

	"github.com/ralt/archpkg/internal/models"
	"github.com/sirupsen/logrus"
)

// AUR builds an AURPackage from one element of the AUR info "results" array.
// Every optional field tolerates absence or a malformed value on its own.
func AUR(item json.RawMessage, log logrus.FieldLogger) (*models.AURPackage, error) {
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

	pkg := &models.AURPackage{
		Name:        str("Name"),
		Version:     str("Version"),
		Description: str("Description"),
		Maintainer:  str("Maintainer"),
		UpstreamURL: str("URL"),
	}

	if pkg.CoMaintainers, err = stringsField(f, "CoMaintainers"); err != nil {
		dataError(log, "CoMaintainers", f["CoMaintainers"], err)
	}
	if pkg.OutOfDate, err = unixTimeField(f, "OutOfDate"); err != nil {
		dataError(log, "OutOfDate", f["OutOfDate"], err)
	}
	if pkg.LastModified, err = unixTimeField(f, "LastModified"); err != nil {
		dataError(log, "LastModified", f["LastModified"], err)
	}
	pkg.NumVotes = votes(f, log)
	if pkg.Popularity, err = numberField(f, "Popularity"); err != nil {
		dataError(log, "Popularity", f["Popularity"], err)
	}

	return pkg, nil
}

// votes returns NumVotes, defaulting to 0 when missing, null, negative or
// non-numeric
func votes(f map[string]json.RawMessage, log logrus.FieldLogger) float64 {
	n, err := numberField(f, "NumVotes")
	if err == nil && n < 0 {
		err = fmt.Errorf("negative vote count %v", n)
	}
	if err != nil {
		dataError(log, "NumVotes", f["NumVotes"], err)
		return 0
	}
	return n
}

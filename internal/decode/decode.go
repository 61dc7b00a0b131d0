// Package decode turns raw API bodies into package records.
//
// Shape problems that make a whole response unusable are returned as
// ErrParse. Problems with a single field are ErrData: they are logged and
// the field falls back to its default so record construction never fails
// over one bad value.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ralt/archpkg/internal/models"
	"github.com/sirupsen/logrus"
)

// Results extracts the "results" array shared by the official search and
// AUR info endpoints. A missing "results" key is treated as no usable data.
func Results(body []byte, log logrus.FieldLogger) ([]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, parseError(fmt.Errorf("decoding response: %w", err))
	}
	if envelope == nil {
		return nil, parseError(fmt.Errorf("response is null"))
	}

	// The AUR RPC reports failures in-band with HTTP 200
	if t, _ := stringField(envelope, "type"); t == "error" {
		msg, _ := stringField(envelope, "error")
		if msg == "" {
			msg = "unspecified error"
		}
		return nil, parseError(fmt.Errorf("api error: %s", msg))
	}

	raw, ok := envelope["results"]
	if !ok || isNull(raw) {
		log.Warn("Response has no results field, treating as empty")
		return nil, nil
	}

	var results []json.RawMessage
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, parseError(fmt.Errorf("results is not an array: %w", err))
	}
	return results, nil
}

// Suggestions decodes the AUR suggest endpoint, a JSON array of names.
// Non-string elements are skipped.
func Suggestions(body []byte, log logrus.FieldLogger) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, parseError(fmt.Errorf("suggestions are not an array: %w", err))
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err != nil || name == "" {
			log.WithField("value", string(item)).Warn("Skipping malformed suggestion")
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// fields decodes one result element into its raw fields
func fields(item json.RawMessage) (map[string]json.RawMessage, error) {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(item, &f); err != nil {
		return nil, parseError(fmt.Errorf("result is not an object: %w", err))
	}
	if f == nil {
		return nil, parseError(fmt.Errorf("result is null"))
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseError(err error) error {
	return &models.LookupError{Type: models.ErrParse, Err: err}
}

// dataError logs a malformed field. The caller keeps the default value.
func dataError(log logrus.FieldLogger, key string, raw json.RawMessage, err error) {
	log.WithFields(logrus.Fields{
		"field": key,
		"value": string(raw),
	}).WithError(&models.LookupError{Type: models.ErrData, Err: err}).Warn("Malformed field, using default")
}

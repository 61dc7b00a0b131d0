package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Query is a single package lookup request
type Query struct {
	Name string
	Repo string // optional official repository filter, e.g. "Core"
}

// NewQuery validates the package name and normalizes the repo filter to the
// capitalization the official search API expects (core -> Core). Only the
// first rune is changed.
func NewQuery(name, repo string) (Query, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Query{}, &LookupError{
			Type: ErrInvalidQuery,
			Err:  fmt.Errorf("package name is required"),
		}
	}

	return Query{
		Name: name,
		Repo: capitalizeRepo(strings.TrimSpace(repo)),
	}, nil
}

func capitalizeRepo(repo string) string {
	if repo == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(repo)
	return string(unicode.ToUpper(r)) + repo[size:]
}

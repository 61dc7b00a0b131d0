// Package format renders lookup results as localized text blocks.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ralt/archpkg/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const timeLayout = "2006-01-02 15:04:05"

// DefaultAURWebURL is used for package links when none is configured
const DefaultAURWebURL = "https://aur.archlinux.org"

// Formatter renders results in one language
type Formatter struct {
	printer   *message.Printer
	lang      language.Tag
	aurWebURL string
	styled    bool
	label     lipgloss.Style
}

// New creates a Formatter. Unsupported languages fall back to English.
func New(lang, aurWebURL string, styled bool) *Formatter {
	if aurWebURL == "" {
		aurWebURL = DefaultAURWebURL
	}
	tag := matchLanguage(lang)
	return &Formatter{
		printer:   message.NewPrinter(tag),
		lang:      tag,
		aurWebURL: strings.TrimRight(aurWebURL, "/"),
		styled:    styled,
		label: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
	}
}

// Language returns the catalog language in use
func (f *Formatter) Language() language.Tag {
	return f.lang
}

// Usage returns the usage hint for a missing package name
func (f *Formatter) Usage() string {
	return f.printer.Sprintf(msgUsage)
}

// Render formats the result of resolving q
func (f *Formatter) Render(q models.Query, r models.Result) string {
	switch r.Kind {
	case models.ResultOfficial:
		return f.official(r.Official)
	case models.ResultCommunity:
		return f.community(r.Community)
	case models.ResultFailed:
		return f.failure(r.Err)
	default:
		return f.printer.Sprintf(msgNotFound, q.Name)
	}
}

func (f *Formatter) official(pkg *models.OfficialPackage) string {
	lastUpdate := f.text(valueNA)
	switch {
	case !pkg.LastUpdate.IsZero():
		lastUpdate = pkg.LastUpdate.Format(timeLayout)
	case pkg.LastUpdateRaw != "":
		lastUpdate = pkg.LastUpdateRaw
	}

	var b strings.Builder
	f.line(&b, labelRepo, orNA(pkg.Repo))
	f.line(&b, labelName, orNA(pkg.Name))
	f.line(&b, labelVersion, orNA(pkg.Version))
	f.line(&b, labelDescription, orNA(pkg.Description))
	f.line(&b, labelPackager, orNA(pkg.Packager))
	f.line(&b, labelUpstream, orNA(pkg.UpstreamURL))
	f.line(&b, labelLastUpdate, lastUpdate)
	return strings.TrimSuffix(b.String(), "\n")
}

func (f *Formatter) community(pkg *models.AURPackage) string {
	maintainer := pkg.Maintainer
	if pkg.Orphaned() {
		maintainer = f.text(valueOrphaned)
	}
	if len(pkg.CoMaintainers) > 0 {
		maintainer += fmt.Sprintf(" ( %s )", strings.Join(pkg.CoMaintainers, " "))
	}

	upstream := pkg.UpstreamURL
	if upstream == "" {
		upstream = f.text(valueNone)
	}

	lastModified := f.text(valueNA)
	if !pkg.LastModified.IsZero() {
		lastModified = pkg.LastModified.Local().Format(timeLayout)
	}

	name := orNA(pkg.Name)

	var b strings.Builder
	f.line(&b, labelRepo, "AUR")
	f.line(&b, labelName, name)
	f.line(&b, labelVersion, orNA(pkg.Version))
	f.line(&b, labelDescription, orNA(pkg.Description))
	f.line(&b, labelMaintainer, maintainer)
	f.line(&b, labelUpstream, upstream)
	if !pkg.OutOfDate.IsZero() {
		f.line(&b, labelOutOfDate, pkg.OutOfDate.Local().Format(timeLayout))
	}
	f.line(&b, labelLastModified, lastModified)
	f.line(&b, labelVotes, strconv.FormatFloat(pkg.NumVotes, 'f', 0, 64))
	f.line(&b, labelAURLink, fmt.Sprintf("%s/packages/%s", f.aurWebURL, name))
	return strings.TrimSuffix(b.String(), "\n")
}

func (f *Formatter) failure(err *models.LookupError) string {
	if err == nil {
		return f.text(msgOtherError)
	}
	switch err.Type {
	case models.ErrNetwork:
		return f.text(msgNetworkError)
	case models.ErrParse:
		return f.text(msgParseError)
	default:
		return f.text(msgOtherError)
	}
}

// line writes one "label value" row. Values are passed as %s arguments so
// the printer never applies locale number formatting to them.
func (f *Formatter) line(b *strings.Builder, label, value string) {
	l := f.text(label)
	if f.styled {
		l = f.label.Render(l)
	}
	b.WriteString(l)
	b.WriteString(value)
	b.WriteString("\n")
}

// text translates a fixed message
func (f *Formatter) text(key string) string {
	return f.printer.Sprintf(key)
}

func orNA(s string) string {
	if s == "" {
		return valueNA
	}
	return s
}

package composition

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

var (
	// ErrParse is returned when the input is not a well-formed composition or
	// lacks a CompositionInfo with positive integer dimensions.
	ErrParse = errors.New("composition parse error")
	// ErrRead is returned when the input document cannot be read.
	ErrRead = errors.New("composition read error")
	// ErrWrite is returned when the output document cannot be written.
	ErrWrite = errors.New("composition write error")
	// ErrInvalidOptions is returned when Options fail validation.
	ErrInvalidOptions = errors.New("invalid conversion options")
)

// WarningKind classifies a non-fatal conversion problem.
type WarningKind string

const (
	// WarnUnparseableNumber means an optional numeric attribute could not be parsed.
	WarnUnparseableNumber WarningKind = "unparseable_number"
	// WarnUnknownDurationUnit means a default duration ended in neither "s" nor "b".
	WarnUnknownDurationUnit WarningKind = "unknown_duration_unit"
	// WarnNoFuzzyMatch means no file in the new media folder matched a reference.
	WarnNoFuzzyMatch WarningKind = "no_fuzzy_match"
	// WarnPartialMatch means a reference was matched by stem containment only.
	WarnPartialMatch WarningKind = "partial_match"
	// WarnUnmatchedMediaRoot means a reference contained neither the media root
	// folder nor the old media root path.
	WarnUnmatchedMediaRoot WarningKind = "unmatched_media_root"
	// WarnMediaDirUnreadable means the new media folder could not be listed.
	WarnMediaDirUnreadable WarningKind = "media_dir_unreadable"
)

// Warning is a non-fatal problem found during a conversion.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Element string      `json:"element,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Element == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", w.Kind, w.Message, w.Element)
}

// describe names an element for warnings and debug logs.
func describe(el *etree.Element) string {
	if el == nil {
		return ""
	}
	if id := el.SelectAttrValue("uniqueId", ""); id != "" {
		return fmt.Sprintf("%s#%s", el.Tag, id)
	}
	if name := el.SelectAttrValue("name", ""); name != "" {
		return fmt.Sprintf("%s[%s]", el.Tag, name)
	}
	return el.Tag
}

// errorf wraps kind with a formatted message.
func errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

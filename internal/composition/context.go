package composition

import (
	"fmt"
	"os"

	"github.com/beevik/etree"

	"composition-converter/internal/logging"
)

// visitedSet remembers transform nodes already scaled in this conversion.
// Nodes are keyed by uniqueId; nodes without one fall back to identity.
type visitedSet struct {
	ids   map[string]bool
	nodes map[*etree.Element]bool
}

func newVisitedSet() *visitedSet {
	return &visitedSet{
		ids:   make(map[string]bool),
		nodes: make(map[*etree.Element]bool),
	}
}

// mark records el and reports whether it was new.
func (v *visitedSet) mark(el *etree.Element) bool {
	if id := el.SelectAttrValue("uniqueId", ""); id != "" {
		if v.ids[id] {
			return false
		}
		v.ids[id] = true
		return true
	}
	if v.nodes[el] {
		return false
	}
	v.nodes[el] = true
	return true
}

func (v *visitedSet) seen(el *etree.Element) bool {
	if id := el.SelectAttrValue("uniqueId", ""); id != "" {
		return v.ids[id]
	}
	return v.nodes[el]
}

// conversion is the state of a single Convert call. Nothing in it outlives
// the call.
type conversion struct {
	doc  *etree.Document
	root *etree.Element
	opts Options

	summary Summary

	transforms *visitedSet
	// scaledParams guards individual dimension/text parameters.
	scaledParams map[*etree.Element]bool
	// updatedRefs holds reference elements whose path changed.
	updatedRefs map[*etree.Element]bool

	media      []os.DirEntry
	mediaRead  bool
	mediaError error
}

func newConversion(doc *etree.Document, opts Options) *conversion {
	return &conversion{
		doc:          doc,
		root:         doc.Root(),
		opts:         opts,
		transforms:   newVisitedSet(),
		scaledParams: make(map[*etree.Element]bool),
		updatedRefs:  make(map[*etree.Element]bool),
		summary: Summary{
			OutputPath:        opts.OutputPath,
			IgnoredExtensions: opts.IgnoreExtensions,
		},
	}
}

// warn records a non-fatal problem and logs it.
func (c *conversion) warn(kind WarningKind, el *etree.Element, format string, args ...interface{}) {
	w := Warning{
		Kind:    kind,
		Element: describe(el),
		Message: fmt.Sprintf(format, args...),
	}
	c.summary.Warnings = append(c.summary.Warnings, w)
	logging.Warn("%s", w)
}

// claimParam reports whether param has not been scaled yet and marks it.
func (c *conversion) claimParam(param *etree.Element) bool {
	if c.scaledParams[param] {
		return false
	}
	c.scaledParams[param] = true
	return true
}

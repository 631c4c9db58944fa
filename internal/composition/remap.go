package composition

import (
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"composition-converter/internal/filesystem"
	"composition-converter/internal/logging"
	"composition-converter/internal/mediatypes"
)

// reference is a path-bearing attribute on a source or preload element.
type reference struct {
	el   *etree.Element
	attr string
}

func (r reference) value() string {
	return r.el.SelectAttrValue(r.attr, "")
}

// references returns every media reference below scope.
func references(scope *etree.Element) []reference {
	var refs []reference
	for _, el := range scope.FindElements(".//VideoFormatReaderSource") {
		refs = append(refs, reference{el: el, attr: "fileName"})
	}
	for _, el := range scope.FindElements(".//PreloadData/VideoFile") {
		refs = append(refs, reference{el: el, attr: "value"})
	}
	return refs
}

// setReference writes a new path and records the element as updated when
// the value actually changed.
func (c *conversion) setReference(ref reference, path string) {
	old := ref.value()
	if old == path {
		return
	}
	ref.el.CreateAttr(ref.attr, path)
	c.updatedRefs[ref.el] = true
	logging.Debug("Updated %s: %s -> %s", ref.el.Tag, old, path)
}

// lastSegment returns the final folder name of a media root, or "" when
// the root ends in "." or ".." and so names no folder of its own.
func lastSegment(root string) string {
	seg := mediatypes.Base(strings.TrimRight(root, `/\`))
	if seg == "." || seg == ".." {
		return ""
	}
	return seg
}

// joinMediaRoot appends name to root without cleaning it, so a relative
// root such as "./MediaB" keeps its leading "./".
func joinMediaRoot(root, name string) string {
	sep := string(filepath.Separator)
	if i := strings.LastIndexAny(root, `/\`); i >= 0 {
		sep = root[i : i+1]
	}
	return strings.TrimRight(root, `/\`) + sep + name
}

// replaceSegment replaces the first path segment equal to old with repl.
// Separators and any leading "./" are kept as written.
func replaceSegment(path, old, repl string) (string, bool) {
	if old == "" {
		return path, false
	}
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '/' && path[i] != '\\' {
			continue
		}
		if path[start:i] == old {
			return path[:start] + repl + path[i:], true
		}
		start = i + 1
	}
	return path, false
}

// remapExact moves a reference from the old media root to the new one by
// swapping the media folder segment, falling back to a literal replacement
// of the old root.
func (c *conversion) remapExact(ref reference) {
	path := ref.value()
	if path == "" {
		return
	}
	oldSeg, newSeg := lastSegment(c.opts.OldMediaRoot), lastSegment(c.opts.NewMediaRoot)
	if oldSeg == "" {
		c.warn(WarnUnmatchedMediaRoot, ref.el, "%s names no media folder, leaving %s", c.opts.OldMediaRoot, path)
		return
	}
	if newSeg != "" {
		if updated, ok := replaceSegment(path, oldSeg, newSeg); ok {
			c.setReference(ref, updated)
			return
		}
	}
	if strings.Contains(path, c.opts.OldMediaRoot) {
		c.setReference(ref, strings.ReplaceAll(path, c.opts.OldMediaRoot, c.opts.NewMediaRoot))
		return
	}
	c.warn(WarnUnmatchedMediaRoot, ref.el, "%s is not under %s", path, c.opts.OldMediaRoot)
}

// mediaFiles lists the regular files of the new media root once per
// conversion, sorted by name.
func (c *conversion) mediaFiles() ([]string, bool) {
	if !c.mediaRead {
		c.mediaRead = true
		cfg := filesystem.DefaultRetryConfig()
		cfg.Label = "media"
		c.media, c.mediaError = filesystem.ReadDirWithRetry(c.opts.NewMediaRoot, cfg)
		if c.mediaError != nil {
			c.warn(WarnMediaDirUnreadable, nil, "cannot list %s: %v", c.opts.NewMediaRoot, c.mediaError)
		}
	}
	if c.mediaError != nil {
		return nil, false
	}
	names := make([]string, 0, len(c.media))
	for _, entry := range c.media {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, true
}

// matchMedia picks the replacement file for a reference. Files sharing its
// stem win, ranked same extension, then same media category, then any. When
// none does, the first file whose stem contains or is contained in the
// reference stem is returned with partial set.
func matchMedia(path string, files []string) (name string, partial, ok bool) {
	stem := strings.ToLower(mediatypes.Stem(path))
	if stem == "" {
		return "", false, false
	}
	ext := mediatypes.Ext(path)

	best, bestRank := "", 0
	for _, f := range files {
		if strings.ToLower(mediatypes.Stem(f)) != stem {
			continue
		}
		rank := 1
		switch {
		case mediatypes.Ext(f) == ext:
			rank = 3
		case mediatypes.SameCategory(path, f):
			rank = 2
		}
		if rank > bestRank {
			best, bestRank = f, rank
		}
	}
	if best != "" {
		return best, false, true
	}

	for _, f := range files {
		other := strings.ToLower(mediatypes.Stem(f))
		if other == "" {
			continue
		}
		if strings.Contains(other, stem) || strings.Contains(stem, other) {
			return f, true, true
		}
	}
	return "", false, false
}

// remapFuzzy points a reference at the file in the new media root that
// shares its base name, whatever its extension.
func (c *conversion) remapFuzzy(ref reference) {
	path := ref.value()
	if path == "" {
		return
	}
	files, ok := c.mediaFiles()
	if !ok {
		return
	}
	name, partial, ok := matchMedia(path, files)
	if !ok {
		c.warn(WarnNoFuzzyMatch, ref.el, "no file in %s matches %s", c.opts.NewMediaRoot, mediatypes.Base(path))
		return
	}
	if partial {
		c.warn(WarnPartialMatch, ref.el, "%s matched %s by partial name", mediatypes.Base(path), name)
	}
	c.setReference(ref, joinMediaRoot(c.opts.NewMediaRoot, name))
}

// remapClip rewrites the media references of one clip.
func (c *conversion) remapClip(clip *etree.Element) {
	for _, ref := range references(clip) {
		if c.opts.IgnoreExtensions {
			c.remapFuzzy(ref)
		} else {
			c.remapExact(ref)
		}
	}
}

// sweepReferences matches every reference in the document against the new
// media root by stem, using the same ranking as the per-clip pass. It
// catches references outside clips. Partial matches are never applied here.
func (c *conversion) sweepReferences() {
	files, ok := c.mediaFiles()
	if !ok {
		return
	}
	for _, ref := range references(c.root) {
		path := ref.value()
		if path == "" {
			continue
		}
		name, partial, found := matchMedia(path, files)
		if !found || partial {
			continue
		}
		c.setReference(ref, joinMediaRoot(c.opts.NewMediaRoot, name))
	}
}

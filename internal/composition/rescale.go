package composition

import (
	"github.com/beevik/etree"

	"composition-converter/internal/logging"
	"composition-converter/internal/mediatypes"
)

const transformPath = "./RenderPass/RenderPass[@type='TransformEffect']"

var transformParams = map[string]bool{
	"Position X": true,
	"Position Y": true,
	"Anchor X":   true,
	"Anchor Y":   true,
	"Anchor Z":   true,
}

var textParams = map[string]bool{
	"FontSize":         true,
	"Size":             true,
	"LineHeight":       true,
	"CharacterSpacing": true,
	"LineSpacing":      true,
	"Position X":       true,
	"Position Y":       true,
}

var textComponentTypes = []string{"TextBlock", "TextEffect", "TextGenerator", "BlockTextGenerator"}

// insideClip reports whether el sits below a Clip that is itself below scope.
func insideClip(el, scope *etree.Element) bool {
	for p := el.Parent(); p != nil && p != scope; p = p.Parent() {
		if p.Tag == "Clip" {
			return true
		}
	}
	return false
}

// ownElements returns the matches of path under scope that do not belong to
// a nested clip.
func ownElements(scope *etree.Element, path string) []*etree.Element {
	var own []*etree.Element
	for _, el := range scope.FindElements(path) {
		if !insideClip(el, scope) {
			own = append(own, el)
		}
	}
	return own
}

func ownElement(scope *etree.Element, path string) *etree.Element {
	if own := ownElements(scope, path); len(own) > 0 {
		return own[0]
	}
	return nil
}

// trackTransforms returns the transform nodes hanging off VideoTrack render
// chains owned by scope.
func trackTransforms(scope *etree.Element, direct bool) []*etree.Element {
	var out []*etree.Element
	tracks := scope.SelectElements("VideoTrack")
	if !direct {
		tracks = ownElements(scope, ".//VideoTrack")
	}
	for _, track := range tracks {
		out = append(out, track.FindElements(transformPath)...)
	}
	return out
}

func namedParam(scope *etree.Element, tag, name string) *etree.Element {
	for _, p := range scope.FindElements(".//" + tag) {
		if p.SelectAttrValue("name", "") == name {
			return p
		}
	}
	return nil
}

// rescaleCompositionInfo scales the declared composition size and applies
// the composition name to the info, the root and the Name parameter.
func (c *conversion) rescaleCompositionInfo() error {
	info := c.root.FindElement(".//CompositionInfo")
	if info == nil {
		return errorf(ErrParse, "no CompositionInfo element")
	}
	width, okW := parseNumber(info.SelectAttrValue("width", ""))
	height, okH := parseNumber(info.SelectAttrValue("height", ""))
	if !okW || !okH || width <= 0 || height <= 0 {
		return errorf(ErrParse, "CompositionInfo has invalid size %q x %q",
			info.SelectAttrValue("width", ""), info.SelectAttrValue("height", ""))
	}
	info.CreateAttr("width", formatTruncated(width*c.opts.ResolutionFactor))
	info.CreateAttr("height", formatTruncated(height*c.opts.ResolutionFactor))
	logging.Debug("Composition size %vx%v -> %sx%s", width, height,
		info.SelectAttrValue("width", ""), info.SelectAttrValue("height", ""))

	name := c.opts.CompositionName
	if name == "" {
		name = info.SelectAttrValue("name", "")
	}
	if name == "" {
		return nil
	}
	info.CreateAttr("name", name)
	c.root.CreateAttr("name", name)
	for _, p := range c.root.FindElements(".//Param[@name='Name']") {
		if p.SelectAttrValue("T", "") == "STRING" {
			p.CreateAttr("value", name)
			break
		}
	}
	return nil
}

// rescaleTrack scales the Width/Height parameters of a VideoTrack params
// block. A nil block is valid and skipped.
func (c *conversion) rescaleTrack(params *etree.Element) {
	if params == nil {
		return
	}
	for _, name := range []string{"Width", "Height"} {
		p := namedParam(params, "ParamRange", name)
		if p == nil || !c.claimParam(p) {
			continue
		}
		raw := p.SelectAttrValue("value", "")
		v, ok := parseNumber(raw)
		if !ok {
			c.warn(WarnUnparseableNumber, p, "track %s %q left unchanged", name, raw)
			continue
		}
		p.CreateAttr("value", formatTruncated(v*c.opts.ResolutionFactor))
	}
}

// rescaleTransform scales the position and anchor parameters of a transform
// node unless the node was already handled in this conversion.
func (c *conversion) rescaleTransform(t *etree.Element) {
	if !c.transforms.mark(t) {
		logging.Debug("Skipping already processed transform %s", describe(t))
		return
	}
	c.summary.TransformsProcessed++
	for _, p := range t.FindElements(".//ParamRange") {
		name := p.SelectAttrValue("name", "")
		if name == "Scale" {
			logging.Debug("Keeping Scale %s on %s", p.SelectAttrValue("value", ""), describe(t))
			continue
		}
		if !transformParams[name] || !c.claimParam(p) {
			continue
		}
		raw := p.SelectAttrValue("value", "")
		v, ok := parseNumber(raw)
		if !ok {
			c.warn(WarnUnparseableNumber, t, "%s %q left unchanged", name, raw)
			continue
		}
		p.CreateAttr("value", formatDecimal(v*c.opts.ResolutionFactor))
		c.summary.TransformsAdjusted++
		logging.Debug("Adjusted %s on %s from %s to %s", name, describe(t), raw, p.SelectAttrValue("value", ""))
	}
}

// rescaleComposition handles the top-level VideoTrack and its transforms.
func (c *conversion) rescaleComposition() {
	c.rescaleTrack(c.root.FindElement("./VideoTrack/Params"))
	for _, t := range trackTransforms(c.root, true) {
		c.rescaleTransform(t)
	}
}

// rescaleLayers handles every layer's own track and transforms. Anything
// belonging to the layer's clips is left to the clip pass.
func (c *conversion) rescaleLayers() {
	for _, layer := range c.root.FindElements(".//Layer") {
		c.rescaleTrack(ownElement(layer, ".//VideoTrack/Params"))
		for _, t := range trackTransforms(layer, false) {
			c.rescaleTransform(t)
		}
	}
}

// rescaleTextComponents scales the size, spacing and position parameters
// of every text render pass.
func (c *conversion) rescaleTextComponents() {
	for _, kind := range textComponentTypes {
		for _, comp := range c.root.FindElements(".//RenderPass[@type='" + kind + "']") {
			c.summary.TextComponentsFound++
			logging.Debug("Processing %s component %s", kind, describe(comp))
			params := append(comp.FindElements(".//Param"), comp.FindElements(".//ParamRange")...)
			for _, p := range params {
				name := p.SelectAttrValue("name", "")
				if !textParams[name] || !c.claimParam(p) {
					continue
				}
				raw := p.SelectAttrValue("value", "")
				v, ok := parseNumber(raw)
				if !ok {
					c.warn(WarnUnparseableNumber, comp, "text %s %q left unchanged", name, raw)
					continue
				}
				p.CreateAttr("value", formatDecimal(v*c.opts.ResolutionFactor))
			}
		}
	}
}

// rescalePrimarySource applies the source size policy: images keep their
// aspect ratio, file-backed videos are normalised to a scaled 1920x1080 and
// generators scale whatever size they declare.
func (c *conversion) rescalePrimarySource(clip *etree.Element, reference string) {
	src := clip.FindElement(".//PrimarySource/VideoSource")
	if src == nil {
		return
	}
	f := c.opts.ResolutionFactor
	setSize := func(w, h float64) {
		src.CreateAttr("width", formatTruncated(w*f))
		src.CreateAttr("height", formatTruncated(h*f))
	}

	if src.SelectAttrValue("type", "") != "VideoFormatReaderSource" {
		wAttr, hAttr := src.SelectAttr("width"), src.SelectAttr("height")
		if wAttr == nil || hAttr == nil {
			return
		}
		w, okW := parseInt(wAttr.Value)
		h, okH := parseInt(hAttr.Value)
		if !okW || !okH {
			c.warn(WarnUnparseableNumber, src, "generator size %q x %q left unchanged", wAttr.Value, hAttr.Value)
			return
		}
		setSize(float64(w), float64(h))
		return
	}

	if !mediatypes.IsImage(reference) {
		setSize(DefaultOldWidth, DefaultOldHeight)
		return
	}
	w, okW := parseInt(src.SelectAttrValue("width", ""))
	h, okH := parseInt(src.SelectAttrValue("height", ""))
	if !okW || !okH {
		c.warn(WarnUnparseableNumber, src, "image size of %s unreadable, using %dx%d",
			mediatypes.Base(reference), DefaultOldWidth, DefaultOldHeight)
		setSize(DefaultOldWidth, DefaultOldHeight)
		return
	}
	setSize(float64(w), float64(h))
	logging.Debug("Image %s %dx%d -> %sx%s", mediatypes.Base(reference), w, h,
		src.SelectAttrValue("width", ""), src.SelectAttrValue("height", ""))
}

// clipReference returns the file name of the clip's first file-backed source.
func clipReference(clip *etree.Element) string {
	if src := clip.FindElement(".//VideoFormatReaderSource"); src != nil {
		return src.SelectAttrValue("fileName", "")
	}
	return ""
}

// processClips runs the per-clip rewrites.
func (c *conversion) processClips() {
	for _, clip := range c.root.FindElements(".//Clip") {
		c.summary.ClipsModified++
		reference := clipReference(clip)

		for _, t := range trackTransforms(clip, false) {
			c.rescaleTransform(t)
		}
		c.rescaleTrack(ownElement(clip, ".//VideoTrack/Params"))
		c.rescalePrimarySource(clip, reference)
		c.normalizeDuration(clip)
		if c.opts.remapsReferences() {
			c.remapClip(clip)
		}
	}
}

// sweepTransforms scales transform nodes no scoped pass reached.
func (c *conversion) sweepTransforms() {
	for _, t := range c.root.FindElements(".//RenderPass[@type='TransformEffect']") {
		if c.transforms.seen(t) {
			continue
		}
		logging.Debug("Processing additional transform %s", describe(t))
		c.rescaleTransform(t)
	}
}

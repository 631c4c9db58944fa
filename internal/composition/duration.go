package composition

import (
	"strings"

	"github.com/beevik/etree"

	"composition-converter/internal/logging"
)

const msAttr = "defaultMillisecondsDuration"

// normalizeDuration rewrites a clip's timing for the new frame rate. Second
// based (TIMELINE) durations keep their value so the real length survives;
// beat based (BPM) durations have their millisecond length scaled.
func (c *conversion) normalizeDuration(clip *etree.Element) {
	position := namedParam(clip, "ParamRange", "Position")
	if position == nil {
		return
	}
	phase := position.SelectElement("PhaseSourceTransportTimeline")

	source := position.SelectElement("DurationSource")
	if source == nil {
		c.scaleMilliseconds(phase)
		return
	}

	unit := source.SelectAttrValue("defaultDuration", "")
	switch {
	case strings.HasSuffix(unit, "s"):
		if source.SelectAttrValue("duration", "") != "" {
			c.summary.CustomDurationsPreserved++
			logging.Debug("Preserving custom duration %s on %s", source.SelectAttrValue("duration", ""), describe(clip))
		}
		c.summary.DurationsAdjusted++
	case strings.HasSuffix(unit, "b"):
		c.scaleMilliseconds(phase)
	default:
		c.warn(WarnUnknownDurationUnit, clip, "default duration %q is neither seconds nor beats", unit)
	}
}

// scaleMilliseconds multiplies a BPM phase length by the frame rate factor.
// Missing or malformed values are skipped.
func (c *conversion) scaleMilliseconds(phase *etree.Element) {
	if phase == nil {
		return
	}
	raw := phase.SelectAttrValue(msAttr, "")
	if raw == "" {
		return
	}
	ms, ok := parseNumber(raw)
	if !ok {
		logging.Debug("Could not parse %s %q, skipping", msAttr, raw)
		return
	}
	phase.CreateAttr(msAttr, formatDecimal(ms*c.opts.FramerateFactor))
	c.summary.DurationsAdjusted++
}

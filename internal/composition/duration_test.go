package composition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clipWithPosition(inner string) string {
	return fmt.Sprintf(`<Composition>
  <CompositionInfo width="1920" height="1080"/>
  <Clip name="C">
    <Transport>
      <ParamRange name="Position" value="0">%s</ParamRange>
    </Transport>
  </Clip>
</Composition>`, inner)
}

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		name          string
		inner         string
		framerate     float64
		wantMS        string
		wantAdjusted  int
		wantPreserved int
		wantWarnings  int
	}{
		{
			name:          "timeline with custom duration",
			inner:         `<DurationSource defaultDuration="5s" duration="5.0s"/><PhaseSourceTransportTimeline defaultMillisecondsDuration="5000.0"/>`,
			framerate:     2.4,
			wantMS:        "5000.0",
			wantAdjusted:  1,
			wantPreserved: 1,
		},
		{
			name:         "timeline without custom duration",
			inner:        `<DurationSource defaultDuration="12.5s"/><PhaseSourceTransportTimeline defaultMillisecondsDuration="12500.0"/>`,
			framerate:    0.5,
			wantMS:       "12500.0",
			wantAdjusted: 1,
		},
		{
			name:         "bpm",
			inner:        `<DurationSource defaultDuration="4b"/><PhaseSourceTransportTimeline defaultMillisecondsDuration="1000.0"/>`,
			framerate:    2.4,
			wantMS:       "2400.0",
			wantAdjusted: 1,
		},
		{
			name:   "bpm with malformed milliseconds",
			inner:  `<DurationSource defaultDuration="4b"/><PhaseSourceTransportTimeline defaultMillisecondsDuration="soon"/>`,
			wantMS: "soon",
		},
		{
			name:   "bpm without phase source",
			inner:  `<DurationSource defaultDuration="8b"/>`,
			wantMS: "",
		},
		{
			name:         "unknown unit",
			inner:        `<DurationSource defaultDuration="4f"/><PhaseSourceTransportTimeline defaultMillisecondsDuration="1000.0"/>`,
			framerate:    2.4,
			wantMS:       "1000.0",
			wantWarnings: 1,
		},
		{
			name:         "phase source without duration source",
			inner:        `<PhaseSourceTransportTimeline defaultMillisecondsDuration="250"/>`,
			framerate:    2,
			wantMS:       "500.0",
			wantAdjusted: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			if tt.framerate != 0 {
				opts.FramerateFactor = tt.framerate
			}
			doc, summary := rewriteFixture(t, clipWithPosition(tt.inner), opts)

			if phase := doc.FindElement("//PhaseSourceTransportTimeline"); phase != nil {
				assert.Equal(t, tt.wantMS, phase.SelectAttrValue(msAttr, ""))
			}
			assert.Equal(t, tt.wantAdjusted, summary.DurationsAdjusted)
			assert.Equal(t, tt.wantPreserved, summary.CustomDurationsPreserved)
			assert.Equal(t, tt.wantWarnings, summary.WarningCount(WarnUnknownDurationUnit))
		})
	}
}

func TestNormalizeDuration_TimelineKeepsDurationAttributes(t *testing.T) {
	doc, _ := rewriteFixture(t,
		clipWithPosition(`<DurationSource defaultDuration="5s" duration="7.25s"/>`),
		Options{ResolutionFactor: 1, FramerateFactor: 3})

	assert.Equal(t, "7.25s", attr(t, doc, "//DurationSource", "duration"))
	assert.Equal(t, "5s", attr(t, doc, "//DurationSource", "defaultDuration"))
}

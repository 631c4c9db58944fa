package composition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

// singleClipComposition is a 1080p composition with one layer holding one
// video clip in TIMELINE mode with a custom 5s duration and one transform.
const singleClipComposition = `<?xml version="1.0" encoding="utf-8"?>
<Composition name="Show" uniqueId="1">
  <CompositionInfo name="Show" width="1920" height="1080"/>
  <Params name="Params">
    <Param name="Name" T="STRING" default="Composition" value="Show"/>
  </Params>
  <Deck name="Deck 1" uniqueId="2">
    <Layer name="Layer 1" uniqueId="10">
      <Clip name="Clip 1" uniqueId="20">
        <PrimarySource>
          <VideoSource type="VideoFormatReaderSource" width="1920" height="1080"/>
        </PrimarySource>
        <VideoFormatReaderSource fileName="./MediaA/clip1.mp4"/>
        <Transport>
          <Params>
            <ParamRange name="Position" T="DOUBLE" value="0">
              <DurationSource defaultDuration="5s" duration="5.0s"/>
              <PhaseSourceTransportTimeline defaultMillisecondsDuration="5000.0"/>
            </ParamRange>
          </Params>
        </Transport>
        <VideoTrack>
          <RenderPass>
            <RenderPass type="TransformEffect" uniqueId="21">
              <Params>
                <ParamRange name="Position X" value="100"/>
              </Params>
            </RenderPass>
          </RenderPass>
        </VideoTrack>
      </Clip>
    </Layer>
  </Deck>
</Composition>
`

// layeredComposition exercises every scope: a top-level track, a layer with
// its own track and transform, a text generator, an image clip, a generator
// clip, a BPM clip and a transform only the final sweep reaches.
const layeredComposition = `<?xml version="1.0" encoding="utf-8"?>
<Composition name="Layered">
  <CompositionInfo name="Layered" width="1920" height="1080"/>
  <Params>
    <Param name="Name" T="STRING" value="Layered"/>
  </Params>
  <VideoTrack>
    <Params>
      <ParamRange name="Width" value="1920"/>
      <ParamRange name="Height" value="1080"/>
    </Params>
    <RenderPass>
      <RenderPass type="TransformEffect" uniqueId="100">
        <Params>
          <ParamRange name="Position X" value="10"/>
          <ParamRange name="Position Y" value="-20.5"/>
          <ParamRange name="Scale" value="100"/>
        </Params>
      </RenderPass>
    </RenderPass>
  </VideoTrack>
  <Deck>
    <Layer name="Layer 1" uniqueId="200">
      <VideoTrack>
        <Params>
          <ParamRange name="Width" value="1920"/>
          <ParamRange name="Height" value="1080"/>
        </Params>
        <RenderPass>
          <RenderPass type="TransformEffect" uniqueId="201">
            <Params>
              <ParamRange name="Anchor X" value="4"/>
              <ParamRange name="Anchor Y" value="6"/>
              <ParamRange name="Anchor Z" value="0.25"/>
            </Params>
          </RenderPass>
        </RenderPass>
      </VideoTrack>
      <Clip name="Image" uniqueId="300">
        <PrimarySource>
          <VideoSource type="VideoFormatReaderSource" width="800" height="600"/>
        </PrimarySource>
        <VideoFormatReaderSource fileName="./MediaA/still.PNG"/>
        <PreloadData>
          <VideoFile value="./MediaA/still.PNG"/>
        </PreloadData>
        <VideoTrack>
          <Params>
            <ParamRange name="Width" value="800"/>
            <ParamRange name="Height" value="600"/>
          </Params>
          <RenderPass>
            <RenderPass type="TransformEffect" uniqueId="301">
              <Params>
                <ParamRange name="Position X" value="50"/>
                <ParamRange name="Scale" value="120"/>
              </Params>
            </RenderPass>
          </RenderPass>
        </VideoTrack>
      </Clip>
      <Clip name="Beat" uniqueId="400">
        <PrimarySource>
          <VideoSource type="VideoFormatReaderSource" width="1280" height="720"/>
        </PrimarySource>
        <VideoFormatReaderSource fileName="./MediaA/loop.mov"/>
        <Transport>
          <Params>
            <ParamRange name="Position" value="0">
              <DurationSource defaultDuration="4b"/>
              <PhaseSourceTransportTimeline defaultMillisecondsDuration="1000.0"/>
            </ParamRange>
          </Params>
        </Transport>
      </Clip>
      <Clip name="Generator" uniqueId="500">
        <PrimarySource>
          <VideoSource type="SolidColorGenerator" width="640" height="480"/>
        </PrimarySource>
        <VideoTrack>
          <RenderPass>
            <RenderPass type="TextGenerator" uniqueId="501">
              <Params>
                <Param name="Text" T="STRING" value="Hello"/>
                <ParamRange name="FontSize" value="40"/>
                <ParamRange name="LineSpacing" value="1.5"/>
                <ParamRange name="Opacity" value="0.5"/>
              </Params>
            </RenderPass>
          </RenderPass>
        </VideoTrack>
      </Clip>
    </Layer>
  </Deck>
  <Effects>
    <RenderPass type="TransformEffect" uniqueId="900">
      <Params>
        <ParamRange name="Position X" value="7"/>
      </Params>
    </RenderPass>
    <RenderPass type="TransformEffect">
      <Params>
        <ParamRange name="Position Y" value="3"/>
      </Params>
    </RenderPass>
  </Effects>
</Composition>
`

func parseFixture(t *testing.T, content string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(content))
	return doc
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadOutput(t *testing.T, path string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(path))
	return doc
}

func testOptions() Options {
	return Options{
		InputPath:        "in.avc",
		OutputPath:       "out.avc",
		ResolutionFactor: 2.0,
		FramerateFactor:  2.4,
	}
}

func rewriteFixture(t *testing.T, content string, opts Options) (*etree.Document, *Summary) {
	t.Helper()
	doc := parseFixture(t, content)
	summary, err := Rewrite(doc, opts)
	require.NoError(t, err)
	return doc, summary
}

// transformParam returns the value of a named parameter of the transform
// with the given uniqueId.
func transformParam(t *testing.T, doc *etree.Document, id, name string) string {
	t.Helper()
	transform := doc.FindElement("//RenderPass[@uniqueId='" + id + "']")
	require.NotNil(t, transform, "transform %s", id)
	p := namedParam(transform, "ParamRange", name)
	require.NotNil(t, p, "param %s on %s", name, id)
	return p.SelectAttrValue("value", "")
}

func attr(t *testing.T, doc *etree.Document, path, name string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, path)
	return el.SelectAttrValue(name, "")
}

package composition

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceComposition(paths ...string) string {
	clips := ""
	for i, p := range paths {
		clips += fmt.Sprintf(`
    <Clip name="Clip %d">
      <VideoFormatReaderSource fileName=%q/>
      <PreloadData><VideoFile value=%q/></PreloadData>
    </Clip>`, i, p, p)
	}
	return `<Composition>
  <CompositionInfo width="1920" height="1080"/>
  <Layer>` + clips + `
  </Layer>
</Composition>`
}

func mediaDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	return dir
}

func TestReplaceSegment(t *testing.T) {
	tests := []struct {
		path, old, repl string
		want            string
		ok              bool
	}{
		{"./MediaA/clip1.mp4", "MediaA", "MediaB", "./MediaB/clip1.mp4", true},
		{"/show/MediaA/sub/clip.mov", "MediaA", "MediaB", "/show/MediaB/sub/clip.mov", true},
		{`C:\Show\MediaA\clip.mov`, "MediaA", "MediaB", `C:\Show\MediaB\clip.mov`, true},
		{"./MediaAX/clip.mov", "MediaA", "MediaB", "./MediaAX/clip.mov", false},
		{"MediaA", "MediaA", "MediaB", "MediaB", true},
		{"./clip.mov", "", "MediaB", "./clip.mov", false},
	}
	for _, tt := range tests {
		got, ok := replaceSegment(tt.path, tt.old, tt.repl)
		assert.Equal(t, tt.want, got, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "MediaA", lastSegment("/show/MediaA"))
	assert.Equal(t, "MediaA", lastSegment("/show/MediaA/"))
	assert.Equal(t, "MediaA", lastSegment(`D:\show\MediaA\`))
	assert.Equal(t, "MediaA", lastSegment("MediaA"))
	assert.Empty(t, lastSegment("."))
	assert.Empty(t, lastSegment("./"))
	assert.Empty(t, lastSegment("/show/.."))
	assert.Empty(t, lastSegment("/"))
}

func TestJoinMediaRoot(t *testing.T) {
	assert.Equal(t, "./MediaB/clip1.mov", joinMediaRoot("./MediaB", "clip1.mov"))
	assert.Equal(t, "./MediaB/clip1.mov", joinMediaRoot("./MediaB/", "clip1.mov"))
	assert.Equal(t, "/show/MediaB/clip1.mov", joinMediaRoot("/show/MediaB", "clip1.mov"))
	assert.Equal(t, `D:\show\MediaB\clip1.mov`, joinMediaRoot(`D:\show\MediaB\`, "clip1.mov"))
	assert.Equal(t, "/clip1.mov", joinMediaRoot("/", "clip1.mov"))
}

func TestMatchMedia(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		files       []string
		want        string
		wantPartial bool
		wantOK      bool
	}{
		{"different extension", "./MediaA/clip1.mp4", []string{"clip1.mov"}, "clip1.mov", false, true},
		{"case insensitive", "clip1.MP4", []string{"CLIP1.dxv"}, "CLIP1.dxv", false, true},
		{"same extension preferred", "clip1.mp4", []string{"clip1.jpg", "clip1.mov", "clip1.mp4"}, "clip1.mp4", false, true},
		{"same category preferred", "clip1.mp4", []string{"clip1.jpg", "clip1.mov"}, "clip1.mov", false, true},
		{"exact stem beats partial", "clip1.mp4", []string{"clip1_uhd.mov", "clip1.png"}, "clip1.png", false, true},
		{"partial containment", "clip1.mp4", []string{"intro.mov", "clip1_uhd.mov"}, "clip1_uhd.mov", true, true},
		{"partial contained", "clip1_final.mp4", []string{"clip1.mov"}, "clip1.mov", true, true},
		{"first sorted partial wins", "clip.mp4", []string{"a_clip.mov", "b_clip.mov"}, "a_clip.mov", true, true},
		{"no match", "clip1.mp4", []string{"intro.mov", "outro.mov"}, "", false, false},
		{"empty listing", "clip1.mp4", nil, "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, partial, ok := matchMedia(tt.path, tt.files)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPartial, partial)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRemap_Exact(t *testing.T) {
	opts := testOptions()
	opts.OldMediaRoot = "/show/MediaA"
	opts.NewMediaRoot = "/show/MediaB"

	doc, summary := rewriteFixture(t, referenceComposition("./MediaA/clip1.mp4", "./Other/clip2.mp4"), opts)

	assert.Equal(t, "./MediaB/clip1.mp4", attr(t, doc, "//Clip[@name='Clip 0']/VideoFormatReaderSource", "fileName"))
	assert.Equal(t, "./MediaB/clip1.mp4", attr(t, doc, "//Clip[@name='Clip 0']/PreloadData/VideoFile", "value"))
	assert.Equal(t, "./Other/clip2.mp4", attr(t, doc, "//Clip[@name='Clip 1']/VideoFormatReaderSource", "fileName"))
	assert.Equal(t, 2, summary.PathsUpdated)
	assert.Equal(t, 2, summary.WarningCount(WarnUnmatchedMediaRoot))
}

func TestRemap_ExactDotRootLeavesReferences(t *testing.T) {
	for _, root := range []string{".", "./", ".."} {
		t.Run(root, func(t *testing.T) {
			opts := testOptions()
			opts.OldMediaRoot = root
			opts.NewMediaRoot = "MediaB"

			doc, summary := rewriteFixture(t, referenceComposition("./clip1.mp4", "../clip2.mp4"), opts)

			assert.Equal(t, "./clip1.mp4", attr(t, doc, "//Clip[@name='Clip 0']/VideoFormatReaderSource", "fileName"))
			assert.Equal(t, "../clip2.mp4", attr(t, doc, "//Clip[@name='Clip 1']/VideoFormatReaderSource", "fileName"))
			assert.Zero(t, summary.PathsUpdated)
			assert.Equal(t, 4, summary.WarningCount(WarnUnmatchedMediaRoot))
		})
	}
}

func TestRemap_ExactDotNewRootUsesLiteralFallback(t *testing.T) {
	opts := testOptions()
	opts.OldMediaRoot = "./MediaA"
	opts.NewMediaRoot = "."

	doc, summary := rewriteFixture(t, referenceComposition("./MediaA/clip1.mp4"), opts)

	assert.Equal(t, "./clip1.mp4", attr(t, doc, "//VideoFormatReaderSource", "fileName"))
	assert.Equal(t, 2, summary.PathsUpdated)
}

func TestRemap_ExactSubstringFallback(t *testing.T) {
	opts := testOptions()
	opts.OldMediaRoot = "/vol/MediaA"
	opts.NewMediaRoot = "/vol/MediaB"

	doc, summary := rewriteFixture(t, referenceComposition("/vol/MediaA_v2/clip.mov"), opts)

	assert.Equal(t, "/vol/MediaB_v2/clip.mov", attr(t, doc, "//VideoFormatReaderSource", "fileName"))
	assert.Equal(t, 2, summary.PathsUpdated)
	assert.Empty(t, summary.Warnings)
}

func TestRemap_WithoutMediaRootsLeavesReferences(t *testing.T) {
	doc, summary := rewriteFixture(t, referenceComposition("./MediaA/clip1.mp4"), testOptions())

	assert.Equal(t, "./MediaA/clip1.mp4", attr(t, doc, "//VideoFormatReaderSource", "fileName"))
	assert.Zero(t, summary.PathsUpdated)
}

func TestRemap_Fuzzy(t *testing.T) {
	dir := mediaDir(t, "clip1.mov", "clip2_uhd.mov", "unrelated.mov")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "clip3"), 0o755))

	opts := testOptions()
	opts.OldMediaRoot = "./MediaA"
	opts.NewMediaRoot = dir
	opts.IgnoreExtensions = true

	doc, summary := rewriteFixture(t,
		referenceComposition("./MediaA/clip1.mp4", "./MediaA/clip2.mp4", "./MediaA/clip3.mp4"), opts)

	assert.Equal(t, filepath.Join(dir, "clip1.mov"), attr(t, doc, "//Clip[@name='Clip 0']/VideoFormatReaderSource", "fileName"))
	assert.Equal(t, filepath.Join(dir, "clip1.mov"), attr(t, doc, "//Clip[@name='Clip 0']/PreloadData/VideoFile", "value"))
	assert.Equal(t, filepath.Join(dir, "clip2_uhd.mov"), attr(t, doc, "//Clip[@name='Clip 1']/VideoFormatReaderSource", "fileName"))
	assert.Equal(t, "./MediaA/clip3.mp4", attr(t, doc, "//Clip[@name='Clip 2']/VideoFormatReaderSource", "fileName"))

	// Both passes touch clip1 and clip2; each reference is counted once.
	assert.Equal(t, 4, summary.PathsUpdated)
	assert.Equal(t, 2, summary.WarningCount(WarnPartialMatch))
	assert.Equal(t, 2, summary.WarningCount(WarnNoFuzzyMatch))
	assert.True(t, summary.IgnoredExtensions)
}

func TestRemap_FuzzyKeepsRelativeRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "MediaB"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MediaB", "clip1.mov"), nil, 0o644))
	t.Chdir(dir)

	opts := testOptions()
	opts.OldMediaRoot = "./MediaA"
	opts.NewMediaRoot = "./MediaB"
	opts.IgnoreExtensions = true

	doc, summary := rewriteFixture(t, referenceComposition("./MediaA/clip1.mp4"), opts)

	assert.Equal(t, "./MediaB/clip1.mov", attr(t, doc, "//VideoFormatReaderSource", "fileName"))
	assert.Equal(t, "./MediaB/clip1.mov", attr(t, doc, "//PreloadData/VideoFile", "value"))
	assert.Equal(t, 2, summary.PathsUpdated)
}

func TestRemap_FuzzySweepReachesReferencesOutsideClips(t *testing.T) {
	dir := mediaDir(t, "logo.png")
	const content = `<Composition>
  <CompositionInfo width="1920" height="1080"/>
  <Deck>
    <PreloadData><VideoFile value="./MediaA/logo.jpg"/></PreloadData>
  </Deck>
</Composition>`
	opts := testOptions()
	opts.OldMediaRoot = "./MediaA"
	opts.NewMediaRoot = dir
	opts.IgnoreExtensions = true

	doc, summary := rewriteFixture(t, content, opts)

	assert.Equal(t, filepath.Join(dir, "logo.png"), attr(t, doc, "//VideoFile", "value"))
	assert.Equal(t, 1, summary.PathsUpdated)
}

func TestRemap_FuzzyUnreadableDirectory(t *testing.T) {
	opts := testOptions()
	opts.OldMediaRoot = "./MediaA"
	opts.NewMediaRoot = filepath.Join(t.TempDir(), "missing")
	opts.IgnoreExtensions = true

	doc, summary := rewriteFixture(t, referenceComposition("./MediaA/clip1.mp4", "./MediaA/clip2.mp4"), opts)

	assert.Equal(t, "./MediaA/clip1.mp4", attr(t, doc, "//VideoFormatReaderSource", "fileName"))
	assert.Zero(t, summary.PathsUpdated)
	assert.Equal(t, 1, summary.WarningCount(WarnMediaDirUnreadable))
	assert.Zero(t, summary.WarningCount(WarnNoFuzzyMatch))
}

func TestRemap_ImageClassifiedBeforeRemap(t *testing.T) {
	dir := mediaDir(t, "poster.mov")
	const content = `<Composition>
  <CompositionInfo width="1920" height="1080"/>
  <Clip name="Poster">
    <PrimarySource><VideoSource type="VideoFormatReaderSource" width="1000" height="1000"/></PrimarySource>
    <VideoFormatReaderSource fileName="./MediaA/poster.png"/>
  </Clip>
</Composition>`
	opts := testOptions()
	opts.OldMediaRoot = "./MediaA"
	opts.NewMediaRoot = dir
	opts.IgnoreExtensions = true

	doc, _ := rewriteFixture(t, content, opts)

	assert.Equal(t, filepath.Join(dir, "poster.mov"), attr(t, doc, "//Clip/VideoFormatReaderSource", "fileName"))
	assert.Equal(t, "2000", attr(t, doc, "//PrimarySource/VideoSource", "width"))
	assert.Equal(t, "2000", attr(t, doc, "//PrimarySource/VideoSource", "height"))
}

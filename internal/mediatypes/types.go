package mediatypes

import "strings"

// FileType represents the kind of file a media reference points at.
type FileType string

const (
	// FileTypeImage represents a still image.
	FileTypeImage FileType = "image"
	// FileTypeVideo represents a movie file.
	FileTypeVideo FileType = "video"
	// FileTypeComposition represents a composition document.
	FileTypeComposition FileType = "composition"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// ImageExtensions maps file extensions to whether they are still image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// VideoExtensions maps file extensions to whether they are movie formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".wmv":  true,
	".mkv":  true,
	".dxv":  true,
	".m4v":  true,
	".webm": true,
}

// CompositionExtensions maps file extensions to whether they are composition documents.
var CompositionExtensions = map[string]bool{
	".avc": true,
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns FileTypeOther if the extension is not recognized.
func GetFileType(ext string) FileType {
	if ImageExtensions[ext] {
		return FileTypeImage
	}
	if VideoExtensions[ext] {
		return FileTypeVideo
	}
	if CompositionExtensions[ext] {
		return FileTypeComposition
	}
	return FileTypeOther
}

// Ext returns the lowercased extension of a reference, including the dot.
// Both forward and backward slashes are treated as separators so references
// written on Windows classify the same way everywhere.
func Ext(ref string) string {
	base := Base(ref)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(base[i:])
}

// Base returns the final element of a reference using either separator.
func Base(ref string) string {
	if i := strings.LastIndexAny(ref, `/\`); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// Stem returns the base name of a reference without its extension.
func Stem(ref string) string {
	base := Base(ref)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// Classify returns the FileType of a reference string.
func Classify(ref string) FileType {
	return GetFileType(Ext(ref))
}

// IsImage reports whether the reference points at a still image.
func IsImage(ref string) bool {
	return Classify(ref) == FileTypeImage
}

// SameCategory reports whether two references are both images or both videos.
func SameCategory(a, b string) bool {
	ta, tb := Classify(a), Classify(b)
	if ta != tb {
		return false
	}
	return ta == FileTypeImage || ta == FileTypeVideo
}

// Package mediatypes classifies media file references found in compositions.
//
// This package is a dependency-free foundation imported by the conversion
// engine and the outer tools. It contains the extension tables and pure
// helpers, nothing else.
//
// # File Types
//
//	mediatypes.FileTypeImage       // Still images (jpg, png, gif, ...)
//	mediatypes.FileTypeVideo       // Movie files (mp4, mov, dxv, ...)
//	mediatypes.FileTypeComposition // Composition documents (avc)
//	mediatypes.FileTypeOther       // Anything else
//
// # Classification
//
// Classify works on raw reference strings as they appear in a composition,
// including Windows-style paths:
//
//	switch mediatypes.Classify(`C:\Media\clip1.MOV`) {
//	case mediatypes.FileTypeImage:
//	    // declared dimensions are trusted and scaled
//	case mediatypes.FileTypeVideo:
//	    // dimensions are normalized
//	}
//
// The image table is deliberately narrow: it lists the formats whose declared
// dimensions the converter preserves when rescaling a primary source.
package mediatypes

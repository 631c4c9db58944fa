// Package composition rewrites composition documents (.avc) for a new output
// resolution and frame rate.
//
// Convert loads the input document into a mutable XML tree, applies every
// rewrite in memory, and only then writes the result next to the requested
// output path and renames it into place. The input file is never modified.
//
// # Rewrites
//
//   - Dimensions: composition size, track Width/Height, primary source size
//     (truncated to integers) and transform Position/Anchor values plus text
//     layout parameters (full precision), all multiplied by the resolution
//     factor. Transform Scale is left alone.
//   - Durations: clips whose default duration ends in "b" (beats) have their
//     millisecond duration multiplied by the frame-rate factor. Clips in
//     seconds keep their durations so edited lengths survive unchanged.
//   - References: media paths under an old media root are moved to a new one,
//     either by swapping the root folder segment or, with IgnoreExtensions, by
//     matching file stems against the new folder's listing.
//
// Each call builds its own conversion state. Transforms reachable through
// several queries are scaled once, keyed by their uniqueId attribute.
//
// Problems with optional values never abort a conversion; they are collected
// as Warnings on the Summary. Only unreadable or malformed input (ErrRead,
// ErrParse), bad options (ErrInvalidOptions) and failed output writes
// (ErrWrite) are returned as errors.
package composition

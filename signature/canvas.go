// Package signature validates the finalized signature images posted back by the
// pad embedded in the interactive quote document, and holds the canvas sizing
// rules that pad script is configured with.
package signature

// Canvas sizing rules passed to the embedded pad script. The backing store is
// devicePixelRatio x CSS size; a degenerate rect falls back to the parent width
// and DefaultCSSHeight. The typed name is drawn at max(MinTypedFontPx, height x TypedFontRatio).
const (
	DefaultCSSHeight = 96.0  // used when the bounding rect is degenerate
	DefaultCSSWidth  = 300.0 // used when the parent width is unknown too
	TypedFontRatio   = 0.5
	MinTypedFontPx   = 18.0
)

// SGR (Selective Graphic Rendition) attribute-facing types.
//
// See: https://vt100.net/docs/vt510-rm/SGR.html
package sgr

type UnderlineType uint8

const (
	UnderlineTypeNone UnderlineType = iota
	UnderlineTypeSingle
	UnderlineTypeDouble
	UnderlineTypeCurly
	UnderlineTypeDotted
	UnderlineTypeDashed
)

package drill

import (
	"fmt"
	"strings"
	"time"
)

// Layer names written into the header of each output program
const (
	LayerPTH  = "PTH_Through"
	LayerNPTH = "NPTH_Through"
)

// HeaderRenderer produces the comment block placed before M48 in an output program.
// holeType is "PLATED" or "NON_PLATED"; layer is LayerPTH or LayerNPTH.
// The returned text is inserted verbatim and should end with a newline.
type HeaderRenderer interface {
	RenderDrillHeader(holeType, layer string) string
}

// HeaderFunc adapts a plain function to HeaderRenderer
type HeaderFunc func(holeType, layer string) string

// RenderDrillHeader implements HeaderRenderer
func (f HeaderFunc) RenderDrillHeader(holeType, layer string) string {
	return f(holeType, layer)
}

// StaticHeader renders a fixed vendor banner with a generation timestamp
type StaticHeader struct {
	Vendor  string
	Version string
	Now     func() time.Time // defaults to time.Now
}

// DefaultHeader returns the banner written when no renderer is configured
func DefaultHeader() StaticHeader {
	return StaticHeader{
		Vendor:  "EasyEDA Pro",
		Version: "v2.2.32.3",
	}
}

// RenderDrillHeader implements HeaderRenderer
func (h StaticHeader) RenderDrillHeader(holeType, layer string) string {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	var b strings.Builder
	fmt.Fprintf(&b, ";TYPE=%s\n", holeType)
	fmt.Fprintf(&b, ";Layer: %s\n", layer)
	fmt.Fprintf(&b, ";%s %s, %s\n", h.Vendor, h.Version, now().Format("2006-01-02 15:04:05"))
	b.WriteString(";Gerber Generator version 0.3\n")
	return b.String()
}

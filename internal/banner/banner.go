package banner

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// PrintBanner writes the startup banner to w.
func PrintBanner(w io.Writer, version string) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	fig := figure.NewFigure("QR-DETECT", "doom", true)
	_, _ = cyan.Fprintln(w, fig.String())

	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintf(w, "    QR code link safety scanner | %s\n", version)
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}

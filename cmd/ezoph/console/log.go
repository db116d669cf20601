package console

import (
	"fmt"
	"os"
)

// Pictograms prefixing operator-facing result lines.
const (
	PictoTestTube    = "🧪"
	PictoThermometer = "🌡"
	PictoChip        = "🔌"
	PictoFlash       = "💡"
	PictoWarning     = "⚠️"
)

func Info(msg string) {
	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", White("..."), msg)
}

func Infof(msg string, args ...interface{}) {
	Info(fmt.Sprintf(msg, args...))
}

// PInfof prints a result line behind a pictogram instead of the
// default "..." marker.
func PInfof(picto, msg string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", picto, fmt.Sprintf(msg, args...))
}

func Print(msg string) {
	_, _ = fmt.Fprintln(os.Stdout, msg)
}

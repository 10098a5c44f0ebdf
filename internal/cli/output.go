package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green    = color.New(color.FgGreen)
	red      = color.New(color.FgRed, color.Bold)
	yellow   = color.New(color.FgYellow)
	cyanBold = color.New(color.FgCyan, color.Bold)
)

func outOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

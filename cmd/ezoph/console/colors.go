package console

import "github.com/fatih/color"

var (
	Red   = color.New(color.FgRed).SprintFunc()
	White = color.New(color.FgHiWhite).SprintFunc()
)

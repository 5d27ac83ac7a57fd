package utils

import (
	"fmt"
	"io"
	"os"
)

var (
	verbose       bool
	verboseOutput io.Writer = os.Stdout
)

func SetVerbose(v bool) {
	verbose = v
}

func Verbose() bool { return verbose }

func VerbosePrintln(format string, a ...any) {
	if !verbose {
		return
	}
	fmt.Fprintf(verboseOutput, format, a...)
	fmt.Fprintln(verboseOutput)
}

func VerbosePrint(format string, a ...any) {
	if verbose {
		fmt.Fprintf(verboseOutput, format, a...)
	}
}

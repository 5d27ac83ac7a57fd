package utils

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func CheckErrorAndExit(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", color.RedString(msg), err)
		os.Exit(1)
	}
}

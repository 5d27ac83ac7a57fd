package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Set with -ldflags "-X github.com/zxhio/linkframe/pkg/builder.Version=..."
var (
	Version   = "unknown"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func BuildInfo() string {
	return fmt.Sprintf("%s %s (%s %s) %s %s/%s",
		filepath.Base(os.Args[0]), Version, Commit, Date, GoVersion, runtime.GOOS, runtime.GOARCH)
}

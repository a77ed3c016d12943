package version

import (
	"runtime"
	"time"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/MrSnakeDoc/flightscope/internal/version.Version=v0.3.0 \
//	  -X github.com/MrSnakeDoc/flightscope/internal/version.Commit=$(git rev-parse --short HEAD)" ./cmd/flightscope
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().UTC().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

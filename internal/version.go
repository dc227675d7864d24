package internal

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/utils"
)

// Set with -ldflags when built in a pipeline
var (
	BuildVersion  = ""
	BuildChecksum = ""
)

func printVersion() (models.Querier, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed to read build info")
	}
	version, checksum := BuildVersion, BuildChecksum
	if version == "" {
		version = bi.Main.Version
	}
	if checksum == "" {
		checksum = bi.Main.Sum
	}
	fmt.Printf("version: %v, go version: %v, checksum: %v\n", version, bi.GoVersion, checksum)
	for _, dep := range bi.Deps {
		fmt.Printf("%s %s\n", dep.Path, dep.Version)
	}
	return nil, utils.ErrUserInitiatedExit
}

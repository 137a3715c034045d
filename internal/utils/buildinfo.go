package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitDescribeCommand = "describe"
)

// version can be set at link time with -ldflags "-X github.com/temirov/treedoc/internal/utils.version=v1.2.3".
var version = EmptyString

var gitDescribeArgumentSets = [][]string{
	{gitDescribeCommand, "--tags", "--exact-match"},
	{gitDescribeCommand, "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the linked version, then the module version
// recorded in the build info, then the output of git describe.
func GetApplicationVersion() string {
	if version != EmptyString {
		return version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	for _, describeArguments := range gitDescribeArgumentSets {
		// #nosec G204
		describeOutput, describeError := exec.Command(gitExecutableName, describeArguments...).Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

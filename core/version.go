package core

import (
	"fmt"

	"go.uber.org/zap"
)

// Version is stamped into every Result produced by this process.
var Version = NoVersion

const NoVersion = "no_version_info"

// SetVersion prefers the build flag over the configured version.
func SetVersion(c *Conf, versionByBuildFlag string) {
	Version = resolveVersion(c.Version, versionByBuildFlag)
	zap.L().Info(fmt.Sprintf("shadow estimator version is %s", Version))
}

func resolveVersion(configured, byBuildFlag string) string {
	switch {
	case byBuildFlag != "":
		return byBuildFlag
	case configured != "":
		return configured
	default:
		return NoVersion
	}
}

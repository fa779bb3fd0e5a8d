package vice

import (
	"context"
	"os/exec"
	"regexp"
	"time"

	semver "github.com/Masterminds/semver/v3"
)

// MinSupportedVersion is the oldest VICE release whose remote-monitor
// protocol and CLI flags this driver was written against.
const MinSupportedVersion = "3.5"

// versionPattern pulls a dotted version number out of x64sc's
// "--version" banner, e.g. "x64sc (VICE C64SC Emulator) 3.8".
var versionPattern = regexp.MustCompile(`(\d+(?:\.\d+){1,3})`)

// CheckVersion runs "x64sc --version", parses the banner for a
// semantic version, and compares it against MinSupportedVersion.
// Returns the parsed version on success.
func CheckVersion(binaryPath string) (*semver.Version, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, binaryPath, "--version").CombinedOutput()
	if err != nil {
		return nil, newError(ErrSpawnFailed, "running %q --version: %v", binaryPath, err)
	}
	return parseVersionBanner(string(out))
}

// parseVersionBanner extracts and validates the version number from an
// x64sc "--version" banner, split out of CheckVersion so the parsing
// and comparison logic can be tested without spawning a real emulator.
func parseVersionBanner(banner string) (*semver.Version, error) {
	match := versionPattern.FindString(banner)
	if match == "" {
		return nil, newError(ErrVersionUnparseable, "could not find a version number in %q", banner)
	}

	got, err := semver.NewVersion(match)
	if err != nil {
		return nil, newError(ErrVersionUnparseable, "parsing version %q: %v", match, err)
	}

	min, err := semver.NewVersion(MinSupportedVersion)
	if err != nil {
		return nil, err // MinSupportedVersion is a constant; this never happens.
	}
	if got.LessThan(min) {
		return nil, newError(ErrVersionTooOld, "%s is older than the minimum supported version %s", got, min)
	}
	return got, nil
}

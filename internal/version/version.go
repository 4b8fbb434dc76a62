// Package version holds build metadata of the vulwitch CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Get returns the trimmed build metadata; an empty Version reads as "dev".
func Get() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
}

// Colored renders v with one color per version component. Strings that are
// not semantic versions are returned unchanged.
func Colored(v string, enabled bool) string {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	paint := func(c *color.Color, n uint64) string {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprint(n)
	}
	out := paint(majorColor, sv.Major()) + "." + paint(minorColor, sv.Minor()) + "." + paint(patchColor, sv.Patch())
	if pre := sv.Prerelease(); pre != "" {
		out += "-" + pre
	}
	if meta := sv.Metadata(); meta != "" {
		out += "+" + meta
	}
	return out
}

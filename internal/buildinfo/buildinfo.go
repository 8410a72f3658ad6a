// Package buildinfo describes the running binary from its embedded build
// metadata.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var readBuildInfo = debug.ReadBuildInfo

// Info is the subset of build metadata shown by --version.
type Info struct {
	Version   string
	Revision  string
	Modified  bool
	Tags      string
	GoVersion string
}

// Read collects build metadata, with "dev" as the version of local builds.
func Read() Info {
	info := Info{Version: "dev"}
	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "-tags":
			info.Tags = setting.Value
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// Version returns the module version or "dev" when unset.
func Version() string {
	return Read().Version
}

// VersionWithTags renders the version followed by revision and tags when
// they are known, e.g. "v0.3.0 (rev 1a2b3c4, tags: nosyntax)".
func VersionWithTags() string {
	return Read().String()
}

func (i Info) String() string {
	var extra []string
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if i.Modified {
			rev += "-dirty"
		}
		extra = append(extra, "rev "+rev)
	}
	if i.Tags != "" {
		extra = append(extra, "tags: "+i.Tags)
	}
	if len(extra) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(extra, ", "))
}

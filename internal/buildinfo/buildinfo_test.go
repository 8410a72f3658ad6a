package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
}

func TestReadWithoutBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil, false)
	assert.Equal(t, "dev", Version())
	assert.Equal(t, "dev", VersionWithTags())
}

func TestReadDevelBuild(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)
	info := Read()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "go1.25.0", info.GoVersion)
	assert.Equal(t, "dev (rev 0123456-dirty)", info.String())
}

func TestReadReleaseWithTags(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{{Key: "-tags", Value: "netgo"}},
	}, true)
	assert.Equal(t, "v1.2.3", Version())
	assert.Equal(t, "v1.2.3 (tags: netgo)", VersionWithTags())
}

package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thiagokokada/tig-go/internal/git"
)

func TestFactoryNew(t *testing.T) {
	f := NewFactory(testEnv(&fakeBackend{}))
	tests := []struct {
		target Target
		want   any
	}{
		{Target{Kind: KindMain}, &MainView{}},
		{Target{Kind: KindDiff, Diff: git.DiffRequest{Commit: "abc"}}, &DiffView{}},
		{Target{Kind: KindStatus}, &StatusView{}},
		{Target{Kind: KindHelp}, &HelpView{}},
	}
	for _, tt := range tests {
		t.Run(tt.target.Kind.String(), func(t *testing.T) {
			v, err := f.New(tt.target)
			require.NoError(t, err)
			assert.IsType(t, tt.want, v)
		})
	}

	v, err := f.New(Target{Kind: KindDiff, Diff: git.DiffRequest{Kind: git.DiffStaged, Path: "x"}})
	require.NoError(t, err)
	assert.Equal(t, git.DiffRequest{Kind: git.DiffStaged, Path: "x"}, v.(*DiffView).Request())
}

func TestFactoryUnknownKind(t *testing.T) {
	f := NewFactory(testEnv(&fakeBackend{}))
	_, err := f.New(Target{Kind: Kind(42)})
	assert.ErrorContains(t, err, "Kind(42)")
}

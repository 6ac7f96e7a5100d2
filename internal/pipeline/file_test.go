package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFile_NestedFile(t *testing.T) {
	src := filepath.Join("/", "proj", "content", "posts")

	f, err := NewFile("posts", src, filepath.Join(src, "2024", "intro.md"))
	require.NoError(t, err)

	require.Equal(t, filepath.Join(src, "2024", "intro.md"), f.Abs)
	require.Equal(t, filepath.Join("2024", "intro.md"), f.Rel)
	require.Equal(t, "intro", f.Base)
	require.Equal(t, ".md", f.Ext)
	require.Equal(t, "2024", f.Dir)
	require.Equal(t, "posts", f.Folder)
}

func TestNewFile_RootLevelFile(t *testing.T) {
	src := filepath.Join("/", "proj", "static")

	f, err := NewFile("assets", src, filepath.Join(src, "logo.svg"))
	require.NoError(t, err)

	require.Equal(t, "logo.svg", f.Rel)
	require.Equal(t, "logo", f.Base)
	require.Equal(t, ".svg", f.Ext)
	require.Equal(t, "", f.Dir)
}

func TestNewFile_NoExtension(t *testing.T) {
	src := filepath.Join("/", "proj", "static")

	f, err := NewFile("assets", src, filepath.Join(src, "LICENSE"))
	require.NoError(t, err)

	require.Equal(t, "LICENSE", f.Base)
	require.Equal(t, "", f.Ext)
}

package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListRoundTrip(t *testing.T) {
	in := []Entry{
		{Name: "one.png", Data: []byte("aaa")},
		{Name: "nested/two.bmp", Data: []byte("bbb")},
		{Name: "readme.txt", Data: []byte("ccc")},
	}
	zipBytes, err := Build(in)
	require.NoError(t, err)

	out, err := List(zipBytes)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, in, out)
}

func TestBuildEmpty(t *testing.T) {
	zipBytes, err := Build(nil)
	require.NoError(t, err)

	out, err := List(zipBytes)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListRejectsGarbage(t *testing.T) {
	_, err := List([]byte("definitely not a zip"))
	assert.Error(t, err)
}

func TestIsImageName(t *testing.T) {
	for name, want := range map[string]bool{
		"photo.png":      true,
		"photo.JPG":      true,
		"scan.tiff":      true,
		"sprite.TGA":     true,
		"texture.bmp":    true,
		"readme.txt":     false,
		"archive.zip":    false,
		"noextension":    false,
		"nested/cat.gif": true,
	} {
		assert.Equal(t, want, IsImageName(name), "name %q", name)
	}
}

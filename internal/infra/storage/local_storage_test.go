package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s := NewLocalImageStore(dir)

	name, err := s.Save(context.Background(), "Cake.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotContains(t, name, "Cake")

	got, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))
}

// 同じ元ファイル名でも上書きしない
func TestLocalImageStore_Save_UniqueNames(t *testing.T) {
	s := NewLocalImageStore(t.TempDir())

	a, err := s.Save(context.Background(), "a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "a.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestLocalImageStore_Save_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalImageStore(dir)

	_, err := s.Save(context.Background(), "a.png", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalImageStore_Save_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalImageStore(t.TempDir()).Save(ctx, "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

package enum

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// enumerate returns the sorted base names of the files yielded for config.
func enumerate(t *testing.T, config Config) []string {
	t.Helper()
	var mu sync.Mutex
	var found []string
	err := NewFilesystemEnumerator(config).Enumerate(context.Background(), func(content []byte, blobID types.BlobID, prov types.Provenance) error {
		mu.Lock()
		defer mu.Unlock()
		found = append(found, filepath.Base(prov.Path()))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(found)
	return found
}

func TestFilesystemEnumerator(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "file1.txt"), []byte("hello world"))
	writeFile(t, filepath.Join(tmpDir, "file2.txt"), []byte("test content"))
	writeFile(t, filepath.Join(tmpDir, "subdir", "subfile.txt"), []byte("nested content"))

	var mu sync.Mutex
	var found []string
	err := NewFilesystemEnumerator(Config{Root: tmpDir}).Enumerate(context.Background(), func(content []byte, blobID types.BlobID, prov types.Provenance) error {
		mu.Lock()
		defer mu.Unlock()
		found = append(found, prov.Path())
		assert.Equal(t, types.ComputeBlobID(content), blobID)
		assert.Equal(t, "file", prov.Kind())
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestFilesystemEnumerator_HiddenFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "visible.txt"), []byte("visible"))
	writeFile(t, filepath.Join(tmpDir, ".hidden.txt"), []byte("hidden"))
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), []byte("git"))

	assert.Equal(t, []string{"visible.txt"}, enumerate(t, Config{Root: tmpDir}))
	assert.Equal(t, []string{".hidden.txt", "config", "visible.txt"}, enumerate(t, Config{Root: tmpDir, IncludeHidden: true}))
}

func TestFilesystemEnumerator_MaxFileSize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "small.txt"), []byte("small"))
	writeFile(t, filepath.Join(tmpDir, "large.txt"), make([]byte, 2000))

	assert.Equal(t, []string{"small.txt"}, enumerate(t, Config{Root: tmpDir, MaxFileSize: 1000}))
}

func TestFilesystemEnumerator_BinaryFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "text.txt"), []byte("text content"))
	writeFile(t, filepath.Join(tmpDir, "binary.bin"), []byte{0x00, 0x01, 0x02, 0x03, 0x04})

	assert.Equal(t, []string{"text.txt"}, enumerate(t, Config{Root: tmpDir}))
}

func TestFilesystemEnumerator_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gitignore"), []byte("ignored.txt\n*.log\n"))
	writeFile(t, filepath.Join(tmpDir, "included.txt"), []byte("included"))
	writeFile(t, filepath.Join(tmpDir, "ignored.txt"), []byte("ignored1"))
	writeFile(t, filepath.Join(tmpDir, "test.log"), []byte("ignored2"))

	assert.Equal(t, []string{".gitignore", "included.txt"}, enumerate(t, Config{Root: tmpDir, IncludeHidden: true}))
}

func TestFilesystemEnumerator_Extensions(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "main.go"), []byte("package main"))
	writeFile(t, filepath.Join(tmpDir, "app.JS"), []byte("const a = 1"))
	writeFile(t, filepath.Join(tmpDir, "notes.txt"), []byte("notes"))

	assert.Equal(t, []string{"app.JS", "main.go"}, enumerate(t, Config{Root: tmpDir, Extensions: []string{".go", "js"}}))
}

func TestFilesystemEnumerator_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "only.go")
	writeFile(t, path, []byte("go run()"))
	writeFile(t, filepath.Join(tmpDir, "other.go"), []byte("other"))

	assert.Equal(t, []string{"only.go"}, enumerate(t, Config{Root: path}))
}

func TestFilesystemEnumerator_MissingRoot(t *testing.T) {
	err := NewFilesystemEnumerator(Config{Root: filepath.Join(t.TempDir(), "missing")}).
		Enumerate(context.Background(), func([]byte, types.BlobID, types.Provenance) error { return nil })
	assert.Error(t, err)
}

func TestFilesystemEnumerator_CurrentDirectory(t *testing.T) {
	// scanning "." must not be treated as a hidden directory
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "code.go"), []byte("go worker()"))
	t.Chdir(tmpDir)

	assert.Equal(t, []string{"code.go"}, enumerate(t, Config{Root: "."}))
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"current dir", ".", false},
		{"parent dir", "..", false},
		{"hidden file", ".hidden", true},
		{"hidden directory", ".git", true},
		{"normal file", "file.txt", false},
		{"normal directory", "src", false},
		{"dotfile", ".gitignore", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHidden(tt.filename))
		})
	}
}

func TestFilesystemEnumerator_ContextCancellation(t *testing.T) {
	tmpDir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, filepath.Join(tmpDir, string(rune('a'+i))+".txt"), []byte("content"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	count := 0
	err := NewFilesystemEnumerator(Config{Root: tmpDir, Workers: 1}).Enumerate(ctx, func([]byte, types.BlobID, types.Provenance) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		if count == 3 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

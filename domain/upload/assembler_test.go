package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunk(t *testing.T, dir string, index int, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chunk-"+itoa(index)), data, 0600))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestAssembler_Assemble_ConcatenatesChunksInOrder(t *testing.T) {
	tempDir := t.TempDir()
	writeChunk(t, tempDir, 0, []byte("hello "))
	writeChunk(t, tempDir, 1, []byte("world"))

	sess := &Session{UploadID: "u1", FileName: "a.txt", TempDir: tempDir, TotalSize: 11}
	a := NewAssembler(t.TempDir())

	result, err := a.Assemble(sess)
	require.NoError(t, err)
	defer os.Remove(result.Path)

	got, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
	assert.Equal(t, int64(11), result.Checksums.ByteLength)
	assert.NotEmpty(t, result.Checksums.CRC32Base64)
	assert.NotEmpty(t, result.Checksums.MD5Base64)
}

func TestAssembler_Assemble_RejectsOutOfOrderChunks(t *testing.T) {
	tempDir := t.TempDir()
	writeChunk(t, tempDir, 0, []byte("a"))
	writeChunk(t, tempDir, 2, []byte("c")) // gap at 1

	sess := &Session{UploadID: "u1", FileName: "a.txt", TempDir: tempDir, TotalSize: 2}
	a := NewAssembler(t.TempDir())

	_, err := a.Assemble(sess)
	require.Error(t, err)
}

func TestAssembler_Assemble_RejectsSizeMismatch(t *testing.T) {
	tempDir := t.TempDir()
	writeChunk(t, tempDir, 0, []byte("short"))

	sess := &Session{UploadID: "u1", FileName: "a.txt", TempDir: tempDir, TotalSize: 999}
	a := NewAssembler(t.TempDir())

	_, err := a.Assemble(sess)
	require.Error(t, err)
}

func TestAssembler_Assemble_ValidatesZipSignature(t *testing.T) {
	tempDir := t.TempDir()
	writeChunk(t, tempDir, 0, []byte("not a zip"))

	sess := &Session{UploadID: "u1", FileName: "archive.zip", TempDir: tempDir, TotalSize: 9}
	a := NewAssembler(t.TempDir())

	_, err := a.Assemble(sess)
	require.Error(t, err)
}

func TestAssembler_Assemble_AcceptsValidZipSignature(t *testing.T) {
	tempDir := t.TempDir()
	writeChunk(t, tempDir, 0, []byte{'P', 'K', 0x03, 0x04, 'x', 'y'})

	sess := &Session{UploadID: "u1", FileName: "archive.zip", TempDir: tempDir, TotalSize: 6}
	a := NewAssembler(t.TempDir())

	result, err := a.Assemble(sess)
	require.NoError(t, err)
	defer os.Remove(result.Path)
}

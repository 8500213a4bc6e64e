package upload

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
)

// chunkWriteBufferSize bounds how much of one chunk is held in memory while
// it is copied into the assembled file; it is not the per-chunk size cap.
const chunkWriteBufferSize = 64 * 1024

// Checksums is the result of streaming an assembled file through both
// hashers named in spec §4.3 step 6.
type Checksums struct {
	ByteLength  int64
	CRC32Base64 string
	MD5Base64   string
}

// Assembled is what the caller receives on a successful assemble: the
// finalized file path and its checksums.
type Assembled struct {
	Path      string
	Checksums Checksums
}

// Assembler reassembles a session's staged chunks into one file, per the
// 7-step algorithm in spec §4.3.
type Assembler struct {
	tempBase string
}

func NewAssembler(tempBase string) *Assembler {
	if tempBase == "" {
		tempBase = os.TempDir()
	}
	return &Assembler{tempBase: tempBase}
}

// Assemble reads sess.TempDir's chunk-N files in order, writes them
// contiguously to a single destination file, validates size and (for .zip
// names) archive signature, and computes CRC32/MD5. On any failure the
// partial destination file is removed.
func (a *Assembler) Assemble(sess *Session) (*Assembled, error) {
	indices, err := a.orderedChunkIndices(sess.TempDir)
	if err != nil {
		return nil, err
	}

	destPath := filepath.Join(a.tempBase, fmt.Sprintf("%s-%s", sess.UploadID, sess.FileName))
	assembled, err := a.writeAndHash(sess, indices, destPath)
	if err != nil {
		os.Remove(destPath)
		return nil, err
	}

	if assembled.Checksums.ByteLength != sess.TotalSize {
		os.Remove(destPath)
		return nil, apperrors.Integrity(fmt.Sprintf(
			"SizeMismatch: assembled %d bytes, declared %d bytes", assembled.Checksums.ByteLength, sess.TotalSize))
	}

	if strings.HasSuffix(strings.ToLower(sess.FileName), ".zip") {
		if err := validateZipSignature(destPath); err != nil {
			os.Remove(destPath)
			return nil, err
		}
	}

	return assembled, nil
}

// orderedChunkIndices implements steps 1-2: scan the staging dir, parse
// "chunk-<n>" entries, sort ascending, and require index i at position i.
func (a *Assembler) orderedChunkIndices(tempDir string) ([]int, error) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("staging directory %q not found", tempDir))
	}

	var indices []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "chunk-") || strings.HasSuffix(name, ".tmp") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, "chunk-"))
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	sort.Ints(indices)

	for i, idx := range indices {
		if idx != i {
			return nil, apperrors.Integrity(fmt.Sprintf("OutOfOrder: expected chunk %d, found %d", i, idx))
		}
	}

	return indices, nil
}

// writeAndHash implements steps 3 and 6: stream each chunk into dest with a
// bounded write buffer, hashing as it goes.
func (a *Assembler) writeAndHash(sess *Session, indices []int, destPath string) (*Assembled, error) {
	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, apperrors.InternalError("failed to open assembly destination", err)
	}
	defer dest.Close()

	crcHasher := crc32.NewIEEE()
	md5Hasher := md5.New()
	multi := io.MultiWriter(dest, crcHasher, md5Hasher)

	var total int64
	buf := make([]byte, chunkWriteBufferSize)
	for _, idx := range indices {
		chunkPath := filepath.Join(sess.TempDir, fmt.Sprintf("chunk-%d", idx))
		chunk, err := os.Open(chunkPath)
		if err != nil {
			return nil, apperrors.InternalError(fmt.Sprintf("failed to open chunk %d", idx), err)
		}

		n, err := io.CopyBuffer(multi, chunk, buf)
		chunk.Close()
		if err != nil {
			return nil, apperrors.InternalError(fmt.Sprintf("failed to write chunk %d", idx), err)
		}
		total += n
	}

	if err := dest.Sync(); err != nil {
		return nil, apperrors.InternalError("failed to flush assembled file", err)
	}

	info, err := dest.Stat()
	if err != nil {
		return nil, apperrors.InternalError("failed to stat assembled file", err)
	}
	if info.Size() != total {
		return nil, apperrors.Integrity(fmt.Sprintf("SizeMismatch: wrote %d bytes, stat reports %d", total, info.Size()))
	}

	crcBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBytes, crcHasher.Sum32())

	return &Assembled{
		Path: destPath,
		Checksums: Checksums{
			ByteLength:  total,
			CRC32Base64: base64.StdEncoding.EncodeToString(crcBytes),
			MD5Base64:   base64.StdEncoding.EncodeToString(md5Hasher.Sum(nil)),
		},
	}, nil
}

// validateZipSignature implements step 5: first two bytes "PK", third byte
// in {0x03,0x05,0x07}, fourth in {0x04,0x06,0x08}.
func validateZipSignature(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.InternalError("failed to open assembled file for signature check", err)
	}
	defer f.Close()

	header := make([]byte, 4)
	if _, err := io.ReadFull(f, header); err != nil {
		return apperrors.Integrity("InvalidArchive: file too short for a zip signature")
	}

	if header[0] != 'P' || header[1] != 'K' {
		return apperrors.Integrity("InvalidArchive: missing PK signature")
	}
	validThird := header[2] == 0x03 || header[2] == 0x05 || header[2] == 0x07
	validFourth := header[3] == 0x04 || header[3] == 0x06 || header[3] == 0x08
	if !validThird || !validFourth {
		return apperrors.Integrity("InvalidArchive: unrecognized zip signature bytes")
	}
	return nil
}

package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	cfg := &config.Config{Upload: config.UploadConfig{TempDir: t.TempDir()}}
	log := logger.New("error", "json")
	return NewStore(cfg, log)
}

func TestStore_InitiateCreatesStagingDir(t *testing.T) {
	s := newTestStore(t)

	uploadID, err := s.Initiate(InitiateRequest{FileName: "a.jpg", GalleryName: "trip", GuildID: "g1", TotalSize: 100})
	require.NoError(t, err)

	sess, err := s.GetMetadata(uploadID)
	require.NoError(t, err)
	assert.DirExists(t, sess.TempDir)
}

func TestStore_SaveChunkAdvancesUploadedBytes(t *testing.T) {
	s := newTestStore(t)
	uploadID, err := s.Initiate(InitiateRequest{FileName: "a.jpg", GalleryName: "trip", GuildID: "g1", TotalSize: 10})
	require.NoError(t, err)

	require.NoError(t, s.SaveChunk(uploadID, 0, []byte("hello")))
	progress, err := s.GetProgress(uploadID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), progress.Counts.UploadedBytes)
	assert.Equal(t, StatusUploading, progress.Status)
}

func TestStore_SaveChunk_UnknownSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveChunk("missing", 0, []byte("x"))
	require.Error(t, err)
}

func TestStore_MarkCompleted_FreezesFurtherProgressUpdates(t *testing.T) {
	s := newTestStore(t)
	uploadID, err := s.Initiate(InitiateRequest{FileName: "a.jpg", GalleryName: "trip", GuildID: "g1", TotalSize: 10})
	require.NoError(t, err)

	require.NoError(t, s.MarkCompleted(uploadID))
	require.NoError(t, s.UpdateProgress(uploadID, StatusProcessing, PhaseServerUpload, ProgressCounts{}))

	progress, err := s.GetProgress(uploadID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, progress.Status)
}

func TestStore_MarkFailed_RecordsError(t *testing.T) {
	s := newTestStore(t)
	uploadID, err := s.Initiate(InitiateRequest{FileName: "a.jpg", GalleryName: "trip", GuildID: "g1", TotalSize: 10})
	require.NoError(t, err)

	require.NoError(t, s.MarkFailed(uploadID, assert.AnError))
	progress, err := s.GetProgress(uploadID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, progress.Status)
	assert.Equal(t, assert.AnError.Error(), progress.Error)
}

func TestStore_Cleanup_RemovesStagingDirAndIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	uploadID, err := s.Initiate(InitiateRequest{FileName: "a.jpg", GalleryName: "trip", GuildID: "g1", TotalSize: 10})
	require.NoError(t, err)

	sess, err := s.GetMetadata(uploadID)
	require.NoError(t, err)
	tempDir := sess.TempDir

	require.NoError(t, s.Cleanup(uploadID))
	assert.NoDirExists(t, tempDir)
	require.NoError(t, s.Cleanup(uploadID)) // idempotent

	_, err = s.GetMetadata(uploadID)
	require.Error(t, err)
}

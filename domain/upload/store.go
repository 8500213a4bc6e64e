package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
)

const sessionDirPrefix = "chunked-upload-"

// sessionTTL and progressRetainTTL fall back to these when unset in config.
const (
	defaultSessionTTL        = 24 * time.Hour
	defaultProgressRetainTTL = 5 * time.Minute
	reaperInterval           = 5 * time.Minute
)

// Store is the UploadSessionStore of spec §4.2: in-process sessions keyed by
// uploadId, each owning a staging directory. It does not serialize
// concurrent mutations on the same key — callers observe the single-writer
// discipline described in spec §5.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	sessionTTL        time.Duration
	progressRetainTTL time.Duration
	tempBase          string

	logger *logger.Logger
}

// NewStore creates a Store and starts its TTL-reaping goroutine, mirroring
// the teacher's cleanupExpiredSessions ticker.
func NewStore(cfg *config.Config, log *logger.Logger) *Store {
	tempBase := cfg.Upload.TempDir
	if tempBase == "" {
		tempBase = os.TempDir()
	}

	sessionTTL := cfg.Upload.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	progressRetainTTL := cfg.Upload.ProgressRetainTTL
	if progressRetainTTL <= 0 {
		progressRetainTTL = defaultProgressRetainTTL
	}

	s := &Store{
		sessions:          make(map[string]*Session),
		sessionTTL:        sessionTTL,
		progressRetainTTL: progressRetainTTL,
		tempBase:          tempBase,
		logger:            log,
	}

	go s.reapLoop()
	return s
}

// Initiate allocates a uuid, creates the staging dir (mode 0700), and
// initializes progress as pending/client-upload.
func (s *Store) Initiate(req InitiateRequest) (string, error) {
	uploadID := uuid.NewString()
	tempDir := filepath.Join(s.tempBase, sessionDirPrefix+uploadID)

	if err := os.MkdirAll(tempDir, 0700); err != nil {
		return "", apperrors.InternalError("failed to create upload staging directory", err)
	}

	sess := &Session{
		UploadID:    uploadID,
		FileName:    req.FileName,
		FileType:    req.FileType,
		GalleryName: req.GalleryName,
		GuildID:     req.GuildID,
		TempDir:     tempDir,
		TotalSize:   req.TotalSize,
		CreatedAt:   nowMillis(),
	}
	sess.mu.progress = Progress{
		Status: StatusPending,
		Phase:  PhaseClientUpload,
		Counts: ProgressCounts{TotalBytes: req.TotalSize},
	}

	s.mu.Lock()
	s.sessions[uploadID] = sess
	s.mu.Unlock()

	s.logger.Info().Str("upload_id", uploadID).Str("file_name", req.FileName).Msg("upload session initiated")
	return uploadID, nil
}

func (s *Store) get(uploadID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[uploadID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("upload session %q not found", uploadID))
	}
	return sess, nil
}

// SaveChunk writes chunk-<index> atomically into the staging dir and
// advances uploadedBytes/status. Fails NotFound if the session or its
// staging dir is missing.
func (s *Store) SaveChunk(uploadID string, index int, buf []byte) error {
	sess, err := s.get(uploadID)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(sess.TempDir); statErr != nil {
		return apperrors.NotFound(fmt.Sprintf("upload session %q staging directory missing", uploadID))
	}

	chunkPath := filepath.Join(sess.TempDir, fmt.Sprintf("chunk-%d", index))
	tmpPath := chunkPath + ".tmp"
	if err := os.WriteFile(tmpPath, buf, 0600); err != nil {
		return apperrors.InternalError("failed to write chunk", err)
	}
	if err := os.Rename(tmpPath, chunkPath); err != nil {
		os.Remove(tmpPath)
		return apperrors.InternalError("failed to finalize chunk", err)
	}

	sess.mu.Lock()
	sess.mu.progress.Counts.UploadedBytes += int64(len(buf))
	sess.mu.progress.Status = StatusUploading
	sess.mu.Unlock()

	return nil
}

// GetMetadata returns the session record.
func (s *Store) GetMetadata(uploadID string) (*Session, error) {
	return s.get(uploadID)
}

// GetProgress returns a snapshot of the session's observable progress.
func (s *Store) GetProgress(uploadID string) (Progress, error) {
	sess, err := s.get(uploadID)
	if err != nil {
		return Progress{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.mu.progress, nil
}

// UpdateProgress merges status/phase/partial counts into the session's
// progress, recording completedAt on first entry to a terminal state.
func (s *Store) UpdateProgress(uploadID string, status Status, phase Phase, partial ProgressCounts) error {
	sess, err := s.get(uploadID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if isTerminal(sess.mu.progress.Status) {
		// Invariant: once completed/failed, status and error are frozen.
		return nil
	}

	sess.mu.progress.Status = status
	sess.mu.progress.Phase = phase
	if partial.TotalBytes != 0 {
		sess.mu.progress.Counts.TotalBytes = partial.TotalBytes
	}
	if partial.UploadedBytes != 0 {
		sess.mu.progress.Counts.UploadedBytes = partial.UploadedBytes
	}
	if partial.TotalFiles != 0 {
		sess.mu.progress.Counts.TotalFiles = partial.TotalFiles
	}
	if partial.ProcessedFiles != 0 {
		sess.mu.progress.Counts.ProcessedFiles = partial.ProcessedFiles
	}

	if isTerminal(status) {
		sess.mu.progress.CompletedAt = nowMillis()
	}
	return nil
}

// MarkCompleted transitions the session to completed, setting completedAt
// once.
func (s *Store) MarkCompleted(uploadID string) error {
	sess, err := s.get(uploadID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if isTerminal(sess.mu.progress.Status) {
		return nil
	}
	sess.mu.progress.Status = StatusCompleted
	sess.mu.progress.CompletedAt = nowMillis()
	return nil
}

// MarkFailed transitions the session to failed with the given error message.
func (s *Store) MarkFailed(uploadID string, cause error) error {
	sess, err := s.get(uploadID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if isTerminal(sess.mu.progress.Status) {
		return nil
	}
	sess.mu.progress.Status = StatusFailed
	if cause != nil {
		sess.mu.progress.Error = cause.Error()
	}
	sess.mu.progress.CompletedAt = nowMillis()
	return nil
}

// Cleanup removes the staging directory and forgets the session. Idempotent.
func (s *Store) Cleanup(uploadID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[uploadID]
	if ok {
		delete(s.sessions, uploadID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if err := os.RemoveAll(sess.TempDir); err != nil {
		return apperrors.InternalError("failed to remove staging directory", err)
	}
	return nil
}

// CleanupExpired removes sessions older than the configured TTL and drops
// progress records whose completedAt is older than the retain TTL.
func (s *Store) CleanupExpired() {
	now := time.Now()

	s.mu.Lock()
	expired := make(map[string]string) // uploadId -> tempDir
	for id, sess := range s.sessions {
		createdAt := time.UnixMilli(sess.CreatedAt)
		if now.Sub(createdAt) > s.sessionTTL {
			expired[id] = sess.TempDir
			continue
		}

		sess.mu.Lock()
		p := sess.mu.progress
		sess.mu.Unlock()
		if isTerminal(p.Status) && p.CompletedAt > 0 {
			completedAt := time.UnixMilli(p.CompletedAt)
			if now.Sub(completedAt) > s.progressRetainTTL {
				expired[id] = sess.TempDir
			}
		}
	}
	for id := range expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for id, tempDir := range expired {
		os.RemoveAll(tempDir)
		s.logger.Info().Str("upload_id", id).Msg("reaped expired upload session")
	}
}

func (s *Store) reapLoop() {
	ticker := time.NewTicker(reaperInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.CleanupExpired()
	}
}

func isTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusFailed
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

package upload

import "sync"

// Status is the coarse lifecycle state of an UploadSession, per spec §3.
type Status string

const (
	StatusPending    Status = "pending"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Phase is the finer-grained step an upload is currently in.
type Phase string

const (
	PhaseClientUpload   Phase = "client-upload"
	PhaseServerAssemble  Phase = "server-assemble"
	PhaseServerExtract   Phase = "server-zip-extract"
	PhaseServerUpload    Phase = "server-upload"
)

// InitiateRequest is the input to Store.Initiate.
type InitiateRequest struct {
	FileName    string
	FileType    string
	GalleryName string
	GuildID     string
	TotalSize   int64
}

// Session is the per-upload record held in process memory (spec §3
// UploadSession). tempDir exists iff the session is live.
type Session struct {
	UploadID    string
	FileName    string
	FileType    string
	GalleryName string
	GuildID     string
	TempDir     string
	TotalSize   int64
	CreatedAt   int64

	mu progressState
}

// ProgressCounts holds the byte/file counters; zero means not yet known, and
// Store.UpdateProgress leaves a counter unchanged when its partial value is zero.
type ProgressCounts struct {
	TotalBytes     int64
	UploadedBytes  int64
	TotalFiles     int64
	ProcessedFiles int64
}

// Progress is the observable upload state (spec §3 UploadProgress).
type Progress struct {
	Status      Status
	Phase       Phase
	Counts      ProgressCounts
	Error       string
	CompletedAt int64
}

// progressState is the mutable part of a session, guarded separately so
// concurrent progress reads never block on the chunk writer.
type progressState struct {
	sync.Mutex
	progress Progress
}

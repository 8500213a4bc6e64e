package gradient

// Status is the GradientRecord state machine (spec §3/§4.5).
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Palette is the computed presentation metadata for a stored image.
type Palette struct {
	Palette     []string `json:"palette"`
	Primary     string   `json:"primary"`
	Secondary   string   `json:"secondary"`
	Foreground  string   `json:"foreground"`
	CSS         string   `json:"css"`
	BlurDataURL string   `json:"blurDataUrl"`
}

// Record is the per-object GradientRecord kept in MetaStore (spec §3).
type Record struct {
	Status    Status   `json:"status"`
	Gradient  *Palette `json:"gradient,omitempty"`
	Attempts  int      `json:"attempts"`
	LastError string   `json:"lastError,omitempty"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// Job is a queued unit of work (spec §3 GradientJob).
type Job struct {
	JobID       string `json:"jobId"`
	GuildID     string `json:"guildId"`
	GalleryName string `json:"galleryName"`
	StorageKey  string `json:"storageKey"`
	ItemID      string `json:"itemId"`
	Attempts    int    `json:"attempts"`
	CreatedAt   int64  `json:"createdAt"`
}

// Metrics is the read-only snapshot exposed by the worker (spec §4.6).
type Metrics struct {
	JobsProcessed       int64
	JobsFailed          int64
	AvgProcessingTimeMs float64
	ActiveJobs          int64
	IsRunning           bool
	IsEnabled           bool
}

// Computer is the external collaborator that derives presentation metadata
// from image bytes. Out of scope per spec §4.6 step 5; implementations are
// injected.
type Computer interface {
	ComputeGradient(bytes []byte) (*Palette, error)
}

package dto

// InitiateUploadRequest is the body of POST /uploads/initiate (spec §6).
type InitiateUploadRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	FileType    string `json:"fileType" validate:"required"`
	GalleryName string `json:"galleryName" validate:"required"`
	GuildID     string `json:"guildId" validate:"required"`
	TotalSize   int64  `json:"totalSize" validate:"required,gt=0"`
}

// InitiateUploadResponse is the 201 response body.
type InitiateUploadResponse struct {
	UploadID string `json:"uploadId"`
}

// UploadChunkResponse is the 200 response body for POST /uploads/:uploadId/chunk.
type UploadChunkResponse struct {
	Success bool `json:"success"`
	Index   int  `json:"index"`
}

// FinalizeUploadRequest is the finalize request shape. POST
// /uploads/:uploadId/finalize takes the uploadId from the path and does not
// read a body.
type FinalizeUploadRequest struct {
	UploadID string `json:"uploadId" validate:"required"`
}

// FinalizeUploadResponse is the 200 response body.
type FinalizeUploadResponse struct {
	Success   bool         `json:"success"`
	FilePath  string       `json:"filePath"`
	Checksums ChecksumsDTO `json:"checksums"`
}

// ChecksumsDTO mirrors domain/upload.Checksums for the wire response.
type ChecksumsDTO struct {
	ByteLength  int64  `json:"byteLength"`
	CRC32Base64 string `json:"crc32Base64"`
	MD5Base64   string `json:"md5Base64"`
}

// ProgressResponse mirrors domain/upload.Progress.
type ProgressResponse struct {
	Status        string `json:"status"`
	Phase         string `json:"phase"`
	TotalBytes    int64  `json:"totalBytes"`
	UploadedBytes int64  `json:"uploadedBytes"`
	TotalFiles    int    `json:"totalFiles"`
	ProcessedFiles int   `json:"processedFiles"`
	Error         string `json:"error,omitempty"`
	CompletedAt   *int64 `json:"completedAt,omitempty"`
}

package upload

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/photo-gallery-sub001/internal/infra/metastore"
	"github.com/julianstephens/photo-gallery-sub001/internal/infra/objectstore"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/security"
)

// allowedFileTypes is spec §4.4 step 2's image MIME allow-list.
var allowedFileTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/bmp":     true,
	"image/tiff":    true,
	"image/x-icon":  true,
}

// GalleryResolver resolves a (guildId, galleryName) pair to the storage-key
// slug, per spec.md §9 open question 1.
type GalleryResolver interface {
	ResolveSlug(ctx context.Context, guildID, galleryName string) (string, error)
}

// GradientEnqueueInput is the payload FinalizePipeline hands to the
// gradient worker's Enqueue (spec §4.6).
type GradientEnqueueInput struct {
	GuildID     string
	GalleryName string
	StorageKey  string
	ItemID      string
}

// GradientEnqueuer is the subset of domain/gradient.Worker FinalizePipeline
// depends on; kept as a local interface to avoid an import cycle.
type GradientEnqueuer interface {
	Enqueue(ctx context.Context, input GradientEnqueueInput) (*string, error)
}

// FinalizePipeline orchestrates assembled-file -> ObjectStore upload ->
// checksum verification -> gradient enqueue -> counter update, per spec §4.4.
type FinalizePipeline struct {
	store      *Store
	assembler  *Assembler
	objects    objectstore.ObjectStore
	meta       metastore.MetaStore
	galleries  GalleryResolver
	gradient   GradientEnqueuer
	logger     *logger.Logger
}

func NewFinalizePipeline(
	store *Store,
	assembler *Assembler,
	objects objectstore.ObjectStore,
	meta metastore.MetaStore,
	galleries GalleryResolver,
	gradient GradientEnqueuer,
	log *logger.Logger,
) *FinalizePipeline {
	return &FinalizePipeline{
		store:     store,
		assembler: assembler,
		objects:   objects,
		meta:      meta,
		galleries: galleries,
		gradient:  gradient,
		logger:    log,
	}
}

// Finalize runs the 10-step pipeline for a session whose chunks have all
// been saved: it assembles them itself via the Assembler, then validates,
// uploads, verifies and records the result.
func (p *FinalizePipeline) Finalize(ctx context.Context, uploadID string) error {
	log := p.logger

	sess, err := p.store.GetMetadata(uploadID)
	if err != nil {
		return err
	}

	// Step 2: validate fileType before doing any work.
	if !allowedFileTypes[strings.ToLower(sess.FileType)] {
		p.failSession(uploadID, "unsupported file type for gallery upload")
		return apperrors.InvalidInput(fmt.Sprintf("file type %q is not an allowed image type", sess.FileType))
	}

	assembled, err := p.assembler.Assemble(sess)
	if err != nil {
		p.failSession(uploadID, err.Error())
		return err
	}
	// Whatever happens next, the temp assembly file must not survive
	// (step 6 / side-effects-on-failure).
	defer os.Remove(assembled.Path)

	validator := security.NewFileValidator(nil)
	if err := validator.ValidateFileSize(assembled.Checksums.ByteLength); err != nil {
		p.failSession(uploadID, err.Error())
		return apperrors.PayloadTooLarge(err.Error())
	}
	if err := p.validateContent(assembled.Path, sess.FileName, validator); err != nil {
		p.failSession(uploadID, err.Error())
		return err
	}

	// Step 3.
	if err := p.store.UpdateProgress(uploadID, StatusProcessing, PhaseServerUpload, ProgressCounts{
		TotalFiles: 1,
	}); err != nil {
		return err
	}

	// Step 1.
	gallerySlug, err := p.galleries.ResolveSlug(ctx, sess.GuildID, sess.GalleryName)
	if err != nil {
		p.failSession(uploadID, err.Error())
		return err
	}

	// Step 4.
	dateFolder := time.Now().UTC().Format("2006-01-02")
	sanitizedName, err := validator.SanitizeFilename(sess.FileName)
	if err != nil {
		p.failSession(uploadID, err.Error())
		return apperrors.InvalidInput("invalid file name")
	}
	objectName := fmt.Sprintf("uploads/%s/%s", dateFolder, sanitizedName)
	storageKey := fmt.Sprintf("%s/%s", gallerySlug, objectName)

	// Step 5.
	file, err := os.Open(assembled.Path)
	if err != nil {
		p.failSession(uploadID, err.Error())
		return apperrors.InternalError("failed to reopen assembled file", err)
	}
	putErr := p.objects.Put(ctx, storageKey, file, assembled.Checksums.ByteLength, objectstore.PutOptions{
		ContentType: sess.FileType,
		CRC32Base64: assembled.Checksums.CRC32Base64,
	})
	file.Close()
	if putErr != nil {
		p.failSession(uploadID, putErr.Error())
		return putErr
	}

	// Step 6: the assembled file is removed by the deferred os.Remove above.

	// Step 7: checksum round-trip.
	remote, err := p.objects.GetChecksums(ctx, storageKey)
	if err != nil {
		log.Warn().Err(err).Str("storage_key", storageKey).Msg("failed to read remote checksums, continuing")
	} else if remote.CRC32 == nil {
		log.Warn().Str("storage_key", storageKey).Msg("remote object has no crc32 metadata, continuing")
	} else if *remote.CRC32 != assembled.Checksums.CRC32Base64 {
		if delErr := p.objects.Delete(ctx, storageKey); delErr != nil {
			log.Error().Err(delErr).Str("storage_key", storageKey).Msg("failed to roll back object after checksum mismatch")
		}
		p.failSession(uploadID, "Checksum mismatch between local and remote object")
		return apperrors.Integrity("Checksum mismatch between local and remote object")
	}

	// Step 8: fire-and-forget gradient enqueue.
	if p.gradient != nil {
		if _, enqueueErr := p.gradient.Enqueue(ctx, GradientEnqueueInput{
			GuildID:     sess.GuildID,
			GalleryName: sess.GalleryName,
			StorageKey:  storageKey,
			ItemID:      storageKey,
		}); enqueueErr != nil {
			log.Warn().Err(enqueueErr).Str("storage_key", storageKey).Msg("gradient enqueue failed, continuing")
		}
	}

	// Step 9.
	if err := p.store.UpdateProgress(uploadID, StatusCompleted, PhaseServerUpload, ProgressCounts{
		ProcessedFiles: 1,
	}); err != nil {
		return err
	}

	// Step 10.
	if _, err := p.meta.Incr(ctx, fmt.Sprintf("gallery:%s:item_count", gallerySlug)); err != nil {
		log.Warn().Err(err).Str("gallery_slug", gallerySlug).Msg("failed to increment gallery item count")
	}

	return nil
}

// validateContent checks the assembled file's magic bytes against the
// extension in fileName, an integrity check distinct from the declared
// fileType allow-list above (a client could lie about either one alone).
func (p *FinalizePipeline) validateContent(path, fileName string, validator *security.FileValidator) error {
	if !validator.IsAllowedExtension(fileName) {
		return apperrors.InvalidInput(fmt.Sprintf("file extension for %q is not an allowed image type", fileName))
	}
	f, err := os.Open(path)
	if err != nil {
		return apperrors.InternalError("failed to reopen assembled file for content validation", err)
	}
	defer f.Close()
	if err := validator.ValidateMagicBytes(fileName, f); err != nil {
		return apperrors.Integrity(fmt.Sprintf("file content does not match its declared type: %s", err))
	}
	return nil
}

func (p *FinalizePipeline) failSession(uploadID, message string) {
	if err := p.store.MarkFailed(uploadID, fmt.Errorf("%s", message)); err != nil {
		p.logger.Error().Err(err).Str("upload_id", uploadID).Msg("failed to mark session failed")
	}
}

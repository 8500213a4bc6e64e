package upload

import (
	"github.com/google/wire"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
)

// ProviderSet is the Wire provider set for the upload domain.
var ProviderSet = wire.NewSet(
	NewStore,
	ProvideAssembler,
	NewFinalizePipeline,
)

// ProvideAssembler constructs the Assembler with the configured temp dir.
func ProvideAssembler(cfg *config.Config) *Assembler {
	return NewAssembler(cfg.Upload.TempDir)
}

package gallery

import (
	"github.com/google/wire"

	"github.com/julianstephens/photo-gallery-sub001/domain/upload"
)

// ProviderSet is the Wire provider set for the gallery domain.
var ProviderSet = wire.NewSet(
	NewController,
	NewService,
	wire.Bind(new(upload.GalleryResolver), new(*Controller)),
)

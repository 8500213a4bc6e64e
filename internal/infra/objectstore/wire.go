package objectstore

import (
	"github.com/google/wire"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
)

// ProviderSet is the Wire provider set for the ObjectStore.
var ProviderSet = wire.NewSet(
	ProvideObjectStore,
)

// ProvideObjectStore constructs the MinIO-backed ObjectStore.
func ProvideObjectStore(cfg *config.Config) (ObjectStore, error) {
	return NewMinIOStore(&cfg.Storage)
}

package metastore

import (
	"github.com/google/wire"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
)

// ProviderSet is the Wire provider set for the MetaStore.
var ProviderSet = wire.NewSet(
	ProvideMetaStore,
)

// ProvideMetaStore constructs the Redis-backed MetaStore.
func ProvideMetaStore(cfg *config.Config, log *logger.Logger) (MetaStore, error) {
	return NewRedisMetaStore(cfg, log)
}

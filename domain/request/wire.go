package request

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the request domain.
var ProviderSet = wire.NewSet(NewService)

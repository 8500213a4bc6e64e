package gradient

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the gradient domain.
var ProviderSet = wire.NewSet(
	NewWorker,
	NewMeta,
	ProvideComputer,
)

// ProvideComputer supplies the default gradient computation collaborator.
func ProvideComputer() Computer {
	return NewAverageColorComputer()
}

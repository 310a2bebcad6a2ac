package objectstream

import (
	"context"

	"github.com/fstorehq/fstore/internal/catalog"
)

// CheckAction re-verifies an object's blob against its recorded hash.
type CheckAction struct{}

func (CheckAction) Run(ctx context.Context, fs Filesystem, object catalog.Object) error {
	return fs.Check(ctx, object.ID, object.Hash)
}

package objectstream

import (
	"context"

	"github.com/fstorehq/fstore/internal/catalog"
)

// SyncAction mirrors an object's blob into ArchiveRoot.
type SyncAction struct {
	ArchiveRoot string
}

func (a SyncAction) Run(ctx context.Context, fs Filesystem, object catalog.Object) error {
	return fs.Copy(ctx, object.ID, a.ArchiveRoot, object.Hash)
}

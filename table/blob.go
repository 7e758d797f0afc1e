package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/resource"
	"github.com/hupe1980/rvec/vector"
)

type aborter interface {
	Abort() error
}

// WriteBlob writes x to the named blob. The blob is committed only if the
// whole table was written; backends that can abort an upload discard it on
// failure. Written bytes count against the IO budget of rc, which may be nil.
func WriteBlob(ctx context.Context, store blobstore.Store, name string, x *vector.Vector, rc *resource.Controller, opts ...Option) error {
	wb, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := Write(resource.NewWriter(ctx, wb, rc), x, opts...); err != nil {
		if a, ok := wb.(aborter); ok {
			return errors.Join(err, a.Abort())
		}
		_ = wb.Close()
		_ = store.Delete(ctx, name)
		return err
	}
	if err := wb.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

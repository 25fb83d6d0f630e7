package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/storage"
)

// uploadBatch tracks the assets stored during one request so they can be
// removed again when the request fails before its document is written.
type uploadBatch struct {
	store  assetStore
	logger *zap.Logger
	keys   []string
}

func newUploadBatch(store assetStore, logger *zap.Logger) *uploadBatch {
	return &uploadBatch{store: store, logger: logger}
}

// upload stores obj sequentially. A Failed result becomes an ErrUploadFailed
// and rolls back everything uploaded so far.
func (b *uploadBatch) upload(ctx context.Context, obj storage.Object) (storage.Result, error) {
	if b.store == nil {
		return storage.Result{}, appErrors.Clone(appErrors.ErrUploadFailed, "file storage unavailable")
	}
	res := b.store.Upload(ctx, obj)
	if !res.OK() {
		b.rollback(ctx)
		return res, appErrors.Wrap(res.Reason, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to store "+storage.SanitizeFilename(obj.Filename))
	}
	b.keys = append(b.keys, res.Key)
	return res, nil
}

// rollback deletes every asset uploaded so far. Failures are logged only.
func (b *uploadBatch) rollback(ctx context.Context) {
	for _, key := range b.keys {
		if err := b.store.Delete(context.WithoutCancel(ctx), key); err != nil {
			b.logger.Warn("failed to clean up uploaded asset", zap.String("storage_key", key), zap.Error(err))
		}
	}
	b.keys = nil
}

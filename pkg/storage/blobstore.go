package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalKeyPrefix marks storage keys written by the local-disk tier.
const LocalKeyPrefix = "local-"

// Tier identifies which backend holds an asset.
type Tier string

const (
	TierRemote Tier = "remote"
	TierLocal  Tier = "local"
)

// Status is the outcome of a two-tier upload.
type Status int

const (
	StatusFailed Status = iota
	StatusUploaded
)

// Object is one file handed to the blob store.
type Object struct {
	Folder      string
	Filename    string
	ContentType string
	Data        []byte
}

// Result is either Uploaded (URL, Key, Tier set) or Failed (Reason set).
type Result struct {
	Status Status
	URL    string
	Key    string
	Size   int64
	Tier   Tier
	Reason error
}

// Uploaded builds a successful result.
func Uploaded(url, key string, size int64, tier Tier) Result {
	return Result{Status: StatusUploaded, URL: url, Key: key, Size: size, Tier: tier}
}

// Failed builds a failed result.
func Failed(reason error) Result {
	return Result{Status: StatusFailed, Reason: reason}
}

// OK reports whether the object was stored by either tier.
func (r Result) OK() bool {
	return r.Status == StatusUploaded
}

// RemoteStore is the primary object storage tier.
type RemoteStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore is the disk fallback tier.
type LocalStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
	URL(filename string) string
}

// Observer receives per-tier upload and delete outcomes.
type Observer interface {
	ObserveUpload(tier string, success bool)
	ObserveAssetDelete(tier string, success bool)
}

// Options tunes a BlobStore.
type Options struct {
	Timeout  time.Duration
	Logger   *zap.Logger
	Observer Observer
}

// BlobStore uploads to the remote tier first and falls back to local disk.
// A nil remote sends every upload straight to disk.
type BlobStore struct {
	remote   RemoteStore
	local    LocalStore
	timeout  time.Duration
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
}

// ErrRemoteUnavailable is reported when a remote key is deleted without a remote tier.
var ErrRemoteUnavailable = errors.New("remote store not configured")

// NewBlobStore wires the two tiers.
func NewBlobStore(remote RemoteStore, local LocalStore, opts Options) *BlobStore {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &BlobStore{
		remote:   remote,
		local:    local,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		observer: opts.Observer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Upload stores obj on the remote tier, or on local disk when the remote call fails.
// Local failure is terminal and is not retried.
func (b *BlobStore) Upload(ctx context.Context, obj Object) Result {
	if len(obj.Data) == 0 {
		return Failed(errors.New("empty object"))
	}
	name := SanitizeFilename(obj.Filename)
	size := int64(len(obj.Data))

	if b.remote != nil {
		key := path.Join(obj.Folder, b.newID()+"-"+name)
		url, err := b.putRemote(ctx, key, obj)
		if err == nil {
			b.observeUpload(TierRemote, true)
			return Uploaded(url, key, size, TierRemote)
		}
		b.observeUpload(TierRemote, false)
		b.logger.Warn("remote upload failed, using local storage",
			zap.String("folder", obj.Folder),
			zap.String("filename", name),
			zap.Error(err),
		)
	}

	if b.local == nil {
		return Failed(errors.New("no storage tier available"))
	}
	// The timestamp keeps local files sortable; the id keeps same-named uploads apart.
	filename := path.Join(obj.Folder, fmt.Sprintf("%d-%s-%s", b.now().UnixMilli(), b.newID(), name))
	stored, err := b.local.Save(filename, obj.Data)
	if err != nil {
		b.observeUpload(TierLocal, false)
		return Failed(fmt.Errorf("local fallback: %w", err))
	}
	b.observeUpload(TierLocal, true)
	return Uploaded(b.local.URL(stored), LocalKeyPrefix+stored, size, TierLocal)
}

// Delete removes the asset behind key: a direct file removal for local keys,
// a remote delete call otherwise. An empty key is a no-op.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if IsLocalKey(key) {
		if b.local == nil {
			return errors.New("local store not configured")
		}
		err := b.local.Delete(strings.TrimPrefix(key, LocalKeyPrefix))
		b.observeDelete(TierLocal, err == nil)
		return err
	}
	if b.remote == nil {
		b.observeDelete(TierRemote, false)
		return ErrRemoteUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	err := b.remote.Delete(ctx, key)
	b.observeDelete(TierRemote, err == nil)
	return err
}

// IsLocalKey reports whether key was produced by the local-disk tier.
func IsLocalKey(key string) bool {
	return strings.HasPrefix(key, LocalKeyPrefix)
}

// SanitizeFilename lowercases name and replaces anything outside [a-z0-9.-] with underscores.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	cleaned := strings.Trim(sb.String(), "._")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

func (b *BlobStore) putRemote(ctx context.Context, key string, obj Object) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.remote.Put(ctx, key, bytes.NewReader(obj.Data), int64(len(obj.Data)), obj.ContentType)
}

func (b *BlobStore) observeUpload(tier Tier, ok bool) {
	if b.observer != nil {
		b.observer.ObserveUpload(string(tier), ok)
	}
}

func (b *BlobStore) observeDelete(tier Tier, ok bool) {
	if b.observer != nil {
		b.observer.ObserveAssetDelete(string(tier), ok)
	}
}

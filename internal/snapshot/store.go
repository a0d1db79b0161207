package snapshot

import (
	"context"
	"errors"

	"github.com/angelmondragon/firstcredit-backend/internal/account"
)

// ErrNotFound is returned by blob stores when nothing is stored under a key.
var ErrNotFound = errors.New("snapshot not found")

// BlobStore keeps opaque snapshot payloads by key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Repository adapts a BlobStore to the account snapshot store.
type Repository struct {
	blobs BlobStore
	codec Codec
}

var _ account.Store = (*Repository)(nil)

func NewRepository(blobs BlobStore, codec Codec) *Repository {
	return &Repository{blobs: blobs, codec: codec}
}

func (r *Repository) Load(ctx context.Context, key string) (account.State, bool, error) {
	data, err := r.blobs.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return account.State{}, false, nil
	}
	if err != nil {
		return account.State{}, false, err
	}
	state, err := r.codec.Decode(data)
	if err != nil {
		return account.State{}, false, err
	}
	return state, true, nil
}

func (r *Repository) Save(ctx context.Context, key string, state account.State) error {
	data, err := r.codec.Encode(state)
	if err != nil {
		return err
	}
	return r.blobs.Put(ctx, key, data)
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.blobs.Ping(ctx)
}

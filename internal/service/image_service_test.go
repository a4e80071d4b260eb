package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-service/internal/entity"
)

type fakeImageStore struct {
	images map[int]*entity.ProductImage
	nextID int
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{images: map[int]*entity.ProductImage{}, nextID: 1}
}

func (f *fakeImageStore) ListByProduct(ctx context.Context, productID int) ([]*entity.ProductImage, error) {
	images := []*entity.ProductImage{}
	for _, img := range f.images {
		if img.ProductID == productID {
			images = append(images, img)
		}
	}
	return images, nil
}

func (f *fakeImageStore) CountByProduct(ctx context.Context, productID int) (int, error) {
	count := 0
	for _, img := range f.images {
		if img.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (f *fakeImageStore) GetByID(ctx context.Context, productID, id int) (*entity.ProductImage, error) {
	img, ok := f.images[id]
	if !ok || img.ProductID != productID {
		return nil, sql.ErrNoRows
	}
	// Return a copy, as a real repository would: callers must not see later
	// mutations of the stored row through a previously fetched snapshot.
	cp := *img
	return &cp, nil
}

func (f *fakeImageStore) Create(ctx context.Context, img *entity.ProductImage) (*entity.ProductImage, error) {
	img.ID = f.nextID
	f.images[img.ID] = img
	f.nextID++
	return img, nil
}

func (f *fakeImageStore) SetObjectKey(ctx context.Context, id int, objectKey string) error {
	img, ok := f.images[id]
	if !ok {
		return sql.ErrNoRows
	}
	img.Image = objectKey
	return nil
}

func (f *fakeImageStore) Delete(ctx context.Context, productID, id int) error {
	img, ok := f.images[id]
	if !ok || img.ProductID != productID {
		return sql.ErrNoRows
	}
	delete(f.images, id)
	return nil
}

type fakeBlobStore struct {
	saved   map[string]string
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: map[string]string{}}
}

func (f *fakeBlobStore) Save(key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.saved[key] = string(data)
	return nil
}

func (f *fakeBlobStore) Delete(key string) error {
	delete(f.saved, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func imageService(existing int) (*ImageService, *fakeImageStore, *fakeBlobStore) {
	store := newFakeImageStore()
	blobs := newFakeBlobStore()
	for i := 0; i < existing; i++ {
		store.Create(context.Background(), &entity.ProductImage{ProductID: 1, Image: "seed.jpg"})
	}
	return NewImageService(store, blobs, apple(10)), store, blobs
}

func upload(name string) Upload {
	return Upload{Filename: name, Reader: strings.NewReader("image_data")}
}

func TestImageUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("zero files rejected", func(t *testing.T) {
		svc, _, _ := imageService(0)
		_, err := svc.Upload(ctx, 1, nil)
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("eighth image rejected at seven", func(t *testing.T) {
		svc, store, _ := imageService(7)
		_, err := svc.Upload(ctx, 1, []Upload{upload("extra.jpg")})
		assert.ErrorIs(t, err, ErrTooManyImages)

		count, _ := store.CountByProduct(ctx, 1)
		assert.Equal(t, 7, count)
	})

	t.Run("batch that would exceed the cap rejected", func(t *testing.T) {
		svc, _, _ := imageService(5)
		_, err := svc.Upload(ctx, 1, []Upload{upload("a.jpg"), upload("b.jpg"), upload("c.jpg")})
		assert.ErrorIs(t, err, ErrTooManyImages)
	})

	t.Run("fourth image accepted at three", func(t *testing.T) {
		svc, store, blobs := imageService(3)
		created, err := svc.Upload(ctx, 1, []Upload{upload("fourth.jpg")})
		require.NoError(t, err)
		require.Len(t, created, 1)

		count, _ := store.CountByProduct(ctx, 1)
		assert.Equal(t, 4, count)
		assert.Contains(t, blobs.saved, created[0].Image)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _ := imageService(0)
		_, err := svc.Upload(ctx, 99, []Upload{upload("a.jpg")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestImageDeleteReleasesBlob(t *testing.T) {
	ctx := context.Background()
	svc, store, blobs := imageService(0)

	created, err := svc.Upload(ctx, 1, []Upload{upload("a.jpg")})
	require.NoError(t, err)
	key := created[0].Image

	require.NoError(t, svc.Delete(ctx, 1, created[0].ID))
	assert.Contains(t, blobs.deleted, key)
	assert.NotContains(t, blobs.saved, key)

	count, _ := store.CountByProduct(ctx, 1)
	assert.Equal(t, 0, count)
}

func TestImageReplaceReleasesOldBlob(t *testing.T) {
	ctx := context.Background()
	svc, _, blobs := imageService(0)

	created, err := svc.Upload(ctx, 1, []Upload{upload("a.jpg")})
	require.NoError(t, err)
	oldKey := created[0].Image

	replaced, err := svc.Replace(ctx, 1, created[0].ID, upload("b.jpg"))
	require.NoError(t, err)

	assert.NotEqual(t, oldKey, replaced.Image)
	assert.Contains(t, blobs.deleted, oldKey)
	assert.Contains(t, blobs.saved, replaced.Image)
}

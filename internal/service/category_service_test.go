package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-service/internal/entity"
)

type fakeCategoryStore struct {
	byKey   map[string]*entity.Category
	names   map[string]bool
	created *entity.Category
	updated *entity.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{byKey: map[string]*entity.Category{}, names: map[string]bool{}}
}

func key(slug string, id int) string {
	return fmt.Sprintf("%s/%d", slug, id)
}

func (f *fakeCategoryStore) List(ctx context.Context) ([]*entity.Category, error) {
	return nil, nil
}

func (f *fakeCategoryStore) GetBySlugAndID(ctx context.Context, slug string, id int) (*entity.Category, error) {
	c, ok := f.byKey[key(slug, id)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeCategoryStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return f.names[name], nil
}

func (f *fakeCategoryStore) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	category.ID = len(f.names) + 1
	f.names[category.Name] = true
	f.byKey[key(category.Slug, category.ID)] = category
	f.created = category
	return category, nil
}

func (f *fakeCategoryStore) Update(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	f.updated = category
	return category, nil
}

func (f *fakeCategoryStore) Delete(ctx context.Context, slug string, id int) error {
	if _, ok := f.byKey[key(slug, id)]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byKey, key(slug, id))
	return nil
}

func TestCategoryCreateNormalizes(t *testing.T) {
	store := newFakeCategoryStore()
	svc := NewCategoryService(store)

	created, err := svc.Create(context.Background(), "fruits")
	require.NoError(t, err)
	assert.Equal(t, "FRUITS", created.Name)
	assert.Equal(t, "fruits", created.Slug)
}

func TestCategoryDuplicateCaseInsensitive(t *testing.T) {
	store := newFakeCategoryStore()
	svc := NewCategoryService(store)

	_, err := svc.Create(context.Background(), "fruits")
	require.NoError(t, err)

	// Any case variant of an existing name is a duplicate.
	_, err = svc.Create(context.Background(), "FRUITS")
	assert.ErrorIs(t, err, ErrCategoryExists)
	_, err = svc.Create(context.Background(), "FrUiTs")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCategoryGetDualKey(t *testing.T) {
	store := newFakeCategoryStore()
	svc := NewCategoryService(store)

	created, err := svc.Create(context.Background(), "fruits")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.Slug, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Right id under the wrong slug is not found.
	_, err = svc.Get(context.Background(), "vegetables", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryCreateBlankName(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryStore())
	_, err := svc.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

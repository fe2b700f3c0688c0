package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"inventory-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runProductRepositoryContract exercises the behaviour every backend must share.
func runProductRepositoryContract(t *testing.T, newRepo func(t *testing.T) ProductRepository) {
	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := &model.Product{Name: "Widget", Description: "blue", StockQuantity: 10, LowStockThreshold: 2}
		require.NoError(t, repo.Create(ctx, p))

		assert.NotEmpty(t, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
		assert.False(t, p.UpdatedAt.IsZero())

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Widget", got.Name)
		assert.Equal(t, "blue", got.Description)
		assert.Equal(t, 10, got.StockQuantity)
		assert.Equal(t, 2, got.LowStockThreshold)
	})

	t.Run("Stores quantities up to MaxStockQuantity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := &model.Product{Name: "Bulk", StockQuantity: model.MaxStockQuantity, LowStockThreshold: model.MaxStockQuantity}
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.MaxStockQuantity, got.StockQuantity)
		assert.Equal(t, model.MaxStockQuantity, got.LowStockThreshold)

		updated, err := repo.Update(ctx, p.ID, func(p *model.Product) error {
			p.StockQuantity = model.MaxStockQuantity - 1
			p.LowStockThreshold = 0
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, model.MaxStockQuantity-1, updated.StockQuantity)

		got, err = repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.MaxStockQuantity-1, got.StockQuantity)
		assert.Equal(t, 0, got.LowStockThreshold)
	})

	t.Run("GetByID returns nil for unknown ID", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("List keeps insertion order and filters low stock", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		seed := []model.Product{
			{Name: "Low Stock", StockQuantity: 5, LowStockThreshold: 10},
			{Name: "Normal Stock", StockQuantity: 15, LowStockThreshold: 10},
			{Name: "At Threshold", StockQuantity: 10, LowStockThreshold: 10},
			{Name: "Empty", StockQuantity: 0, LowStockThreshold: 1},
		}
		for i := range seed {
			require.NoError(t, repo.Create(ctx, &seed[i]))
		}

		all, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i := range seed {
			assert.Equal(t, seed[i].ID, all[i].ID)
		}

		low, err := repo.List(ctx, Filter{LowStockOnly: true})
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "Low Stock", low[0].Name)
		assert.Equal(t, "Empty", low[1].Name)

		page, err := repo.List(ctx, Filter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "Normal Stock", page[0].Name)
		assert.Equal(t, "At Threshold", page[1].Name)

		tail, err := repo.List(ctx, Filter{Offset: 3})
		require.NoError(t, err)
		require.Len(t, tail, 1)
		assert.Equal(t, "Empty", tail[0].Name)
	})

	t.Run("List on empty store returns empty slice", func(t *testing.T) {
		repo := newRepo(t)

		products, err := repo.List(context.Background(), Filter{LowStockOnly: true})
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("Update applies mutation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := &model.Product{Name: "Widget", StockQuantity: 10}
		require.NoError(t, repo.Create(ctx, p))

		updated, err := repo.Update(ctx, p.ID, func(p *model.Product) error {
			p.StockQuantity += 5
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 15, updated.StockQuantity)
		assert.Equal(t, p.ID, updated.ID)

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 15, got.StockQuantity)
	})

	t.Run("Update aborted by mutation leaves record intact", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := &model.Product{Name: "Widget", StockQuantity: 10}
		require.NoError(t, repo.Create(ctx, p))

		abort := errors.New("abort")
		updated, err := repo.Update(ctx, p.ID, func(p *model.Product) error {
			p.StockQuantity = 0
			p.Name = "Changed"
			return abort
		})
		assert.ErrorIs(t, err, abort)
		assert.Nil(t, updated)

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.StockQuantity)
		assert.Equal(t, "Widget", got.Name)
	})

	t.Run("Update unknown product", func(t *testing.T) {
		repo := newRepo(t)

		called := false
		_, err := repo.Update(context.Background(), "00000000-0000-0000-0000-000000000000", func(p *model.Product) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.False(t, called)
	})

	t.Run("Concurrent updates are not lost", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := &model.Product{Name: "Widget", StockQuantity: 0}
		require.NoError(t, repo.Create(ctx, p))

		const workers = 20
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Update(ctx, p.ID, func(p *model.Product) error {
					p.StockQuantity++
					return nil
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, workers, got.StockQuantity)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := &model.Product{Name: "Widget"}
		require.NoError(t, repo.Create(ctx, p))

		deleted, err := repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

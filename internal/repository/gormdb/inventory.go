package gormdb

import (
	"context"
	"fmt"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// ListStock returns stock items ordered by category then name.
func (s *Store) ListStock(ctx context.Context, category models.StockCategory) ([]models.StockItem, error) {
	q := s.db.WithContext(ctx).Model(&models.StockItem{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var items []models.StockItem
	if err := q.Order("category asc").Order("name asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return items, nil
}

// FindStock loads a stock item by id.
func (s *Store) FindStock(ctx context.Context, id string) (models.StockItem, error) {
	var item models.StockItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return models.StockItem{}, lookupErr(err, msgStockNotFound)
	}
	return item, nil
}

// StockNameExists reports whether another item already uses name.
func (s *Store) StockNameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.StockItem{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check stock name: %w", err)
	}
	return count > 0, nil
}

// CreateStock inserts a stock item.
func (s *Store) CreateStock(ctx context.Context, item *models.StockItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return writeErr(err, msgStockExists)
	}
	return nil
}

// SaveStock writes every column of an existing item.
func (s *Store) SaveStock(ctx context.Context, item *models.StockItem) error {
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return writeErr(err, msgStockExists)
	}
	return nil
}

// DeleteStock removes a stock item.
func (s *Store) DeleteStock(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.StockItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound(msgStockNotFound)
	}
	return nil
}

// ListEggPrices returns the most recent prices, optionally for one grade.
func (s *Store) ListEggPrices(ctx context.Context, grade string, limit int) ([]models.EggPrice, error) {
	q := s.db.WithContext(ctx).Model(&models.EggPrice{})
	if grade != "" {
		q = q.Where("grade = ?", grade)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var prices []models.EggPrice
	if err := q.Order("date desc").Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("list egg prices: %w", err)
	}
	return prices, nil
}

// LatestEggPrices returns the newest price per grade.
func (s *Store) LatestEggPrices(ctx context.Context) ([]models.EggPrice, error) {
	var prices []models.EggPrice
	if err := s.db.WithContext(ctx).Order("date desc").Order("created_at desc").Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("list latest egg prices: %w", err)
	}

	seen := make(map[string]bool, len(prices))
	latest := make([]models.EggPrice, 0)
	for _, p := range prices {
		if seen[p.Grade] {
			continue
		}
		seen[p.Grade] = true
		latest = append(latest, p)
	}
	return latest, nil
}

// CreateEggPrice inserts a price point.
func (s *Store) CreateEggPrice(ctx context.Context, price *models.EggPrice) error {
	if err := s.db.WithContext(ctx).Create(price).Error; err != nil {
		return fmt.Errorf("insert egg price: %w", err)
	}
	return nil
}

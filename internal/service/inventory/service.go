// Package inventory manages stock items and egg market prices.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

const eggPriceListLimit = 100

// Repository is the storage the inventory service needs.
type Repository interface {
	ListStock(ctx context.Context, category models.StockCategory) ([]models.StockItem, error)
	FindStock(ctx context.Context, id string) (models.StockItem, error)
	StockNameExists(ctx context.Context, name, excludeID string) (bool, error)
	CreateStock(ctx context.Context, item *models.StockItem) error
	SaveStock(ctx context.Context, item *models.StockItem) error
	DeleteStock(ctx context.Context, id string) error

	ListEggPrices(ctx context.Context, grade string, limit int) ([]models.EggPrice, error)
	LatestEggPrices(ctx context.Context) ([]models.EggPrice, error)
	CreateEggPrice(ctx context.Context, price *models.EggPrice) error
}

// Service implements stock and egg price operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires an inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// StockInput is the body of stock create and update requests. Nil fields are
// left unchanged on update.
type StockInput struct {
	Category  *models.StockCategory `json:"category"`
	Name      *string               `json:"name"`
	Quantity  *float64              `json:"quantity"`
	Unit      *string               `json:"unit"`
	UnitPrice *float64              `json:"unitPrice"`
	Notes     *string               `json:"notes"`
}

// EggPriceInput is the body of an egg price create request.
type EggPriceInput struct {
	Grade         string   `json:"grade"`
	PricePerKg    *float64 `json:"pricePerKg"`
	PricePerCrate *float64 `json:"pricePerCrate"`
	Date          string   `json:"date"`
}

// ValidCategory reports whether c is a known stock category.
func ValidCategory(c models.StockCategory) bool {
	switch c {
	case models.StockFeedRawMaterial, models.StockFinishedFeed, models.StockEggs, models.StockMedicine, models.StockCrates:
		return true
	}
	return false
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// ListStock returns stock items, optionally for one category.
func (s *Service) ListStock(ctx context.Context, category models.StockCategory) ([]models.StockItem, error) {
	if category != "" && !ValidCategory(category) {
		return nil, models.Invalid("Jenis stok tidak valid")
	}
	return s.repo.ListStock(ctx, category)
}

// GetStock returns one stock item.
func (s *Service) GetStock(ctx context.Context, id string) (models.StockItem, error) {
	return s.repo.FindStock(ctx, id)
}

// CreateStock validates and stores a stock item.
func (s *Service) CreateStock(ctx context.Context, in StockInput) (models.StockItem, error) {
	if in.Category == nil || blank(in.Name) || blank(in.Unit) {
		return models.StockItem{}, models.Invalid("Jenis, nama, dan satuan wajib diisi")
	}

	item := models.StockItem{
		Category: *in.Category,
		Name:     strings.TrimSpace(*in.Name),
		Unit:     strings.TrimSpace(*in.Unit),
	}
	if err := s.apply(ctx, &item, in); err != nil {
		return models.StockItem{}, err
	}
	if err := s.repo.CreateStock(ctx, &item); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

// UpdateStock applies the non-nil fields of in.
func (s *Service) UpdateStock(ctx context.Context, id string, in StockInput) (models.StockItem, error) {
	item, err := s.repo.FindStock(ctx, id)
	if err != nil {
		return models.StockItem{}, err
	}

	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Name != nil {
		if blank(in.Name) {
			return models.StockItem{}, models.Invalid("Nama stok wajib diisi")
		}
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		if blank(in.Unit) {
			return models.StockItem{}, models.Invalid("Satuan wajib diisi")
		}
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if err := s.apply(ctx, &item, in); err != nil {
		return models.StockItem{}, err
	}
	if err := s.repo.SaveStock(ctx, &item); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

func (s *Service) apply(ctx context.Context, item *models.StockItem, in StockInput) error {
	if !ValidCategory(item.Category) {
		return models.Invalid("Jenis stok tidak valid")
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return models.Invalid("Jumlah tidak boleh negatif")
		}
		item.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		if *in.UnitPrice < 0 {
			return models.Invalid("Harga tidak boleh negatif")
		}
		item.UnitPrice = in.UnitPrice
	}
	if in.Notes != nil {
		item.Notes = in.Notes
	}

	exists, err := s.repo.StockNameExists(ctx, item.Name, item.ID)
	if err != nil {
		return err
	}
	if exists {
		return models.Invalid("Nama stok sudah ada")
	}
	return nil
}

// DeleteStock removes a stock item.
func (s *Service) DeleteStock(ctx context.Context, id string) error {
	return s.repo.DeleteStock(ctx, id)
}

// ListEggPrices returns recent prices and the latest price per grade.
func (s *Service) ListEggPrices(ctx context.Context, grade string) ([]models.EggPrice, []models.EggPrice, error) {
	prices, err := s.repo.ListEggPrices(ctx, grade, eggPriceListLimit)
	if err != nil {
		return nil, nil, err
	}
	latest, err := s.repo.LatestEggPrices(ctx)
	if err != nil {
		return nil, nil, err
	}
	return prices, latest, nil
}

// CreateEggPrice stores a dated price point.
func (s *Service) CreateEggPrice(ctx context.Context, in EggPriceInput) (models.EggPrice, error) {
	grade := strings.TrimSpace(in.Grade)
	if grade == "" || in.PricePerKg == nil {
		return models.EggPrice{}, models.Invalid("Jenis telur dan harga per kg wajib diisi")
	}
	if *in.PricePerKg < 0 || (in.PricePerCrate != nil && *in.PricePerCrate < 0) {
		return models.EggPrice{}, models.Invalid("Harga tidak boleh negatif")
	}

	date, err := models.ParseDate(in.Date)
	if err != nil {
		return models.EggPrice{}, err
	}
	if date.IsZero() {
		date = s.now().UTC()
	}

	price := models.EggPrice{Grade: grade, PricePerKg: *in.PricePerKg, PricePerCrate: in.PricePerCrate, Date: date}
	if err := s.repo.CreateEggPrice(ctx, &price); err != nil {
		return models.EggPrice{}, err
	}
	return price, nil
}

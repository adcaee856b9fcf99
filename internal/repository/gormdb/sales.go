package gormdb

import (
	"context"
	"fmt"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// ListSales returns invoices in the window, newest first.
func (s *Store) ListSales(ctx context.Context, filter models.SalesFilter) ([]models.SalesInvoice, error) {
	q := dateRange(s.db.WithContext(ctx).Model(&models.SalesInvoice{}), "date", filter.From, filter.To)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var invoices []models.SalesInvoice
	if err := q.Order("date desc").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return invoices, nil
}

// FindSale loads an invoice by id.
func (s *Store) FindSale(ctx context.Context, id string) (models.SalesInvoice, error) {
	var invoice models.SalesInvoice
	if err := s.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		return models.SalesInvoice{}, lookupErr(err, msgSaleNotFound)
	}
	return invoice, nil
}

// InvoiceNumberExists reports whether another invoice already uses number.
func (s *Store) InvoiceNumberExists(ctx context.Context, number, excludeID string) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.SalesInvoice{}).Where("invoice_number = ?", number)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return count > 0, nil
}

// CreateSale inserts an invoice.
func (s *Store) CreateSale(ctx context.Context, invoice *models.SalesInvoice) error {
	if err := s.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return writeErr(err, msgInvoiceExists)
	}
	return nil
}

// SaveSale writes every column of an existing invoice.
func (s *Store) SaveSale(ctx context.Context, invoice *models.SalesInvoice) error {
	if err := s.db.WithContext(ctx).Save(invoice).Error; err != nil {
		return writeErr(err, msgInvoiceExists)
	}
	return nil
}

// DeleteSale removes an invoice.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.SalesInvoice{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete sale: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound(msgSaleNotFound)
	}
	return nil
}

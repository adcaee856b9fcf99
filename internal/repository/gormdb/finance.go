package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// ListReceivables returns receivables ordered by due date, optionally by status.
func (s *Store) ListReceivables(ctx context.Context, status models.DebtStatus) ([]models.Receivable, error) {
	var rows []models.Receivable
	if err := debtQuery(s.db.WithContext(ctx), status).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	return rows, nil
}

// CreateReceivable inserts a receivable.
func (s *Store) CreateReceivable(ctx context.Context, r *models.Receivable) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("insert receivable: %w", err)
	}
	return nil
}

// FindReceivable loads a receivable by id.
func (s *Store) FindReceivable(ctx context.Context, id string) (models.Receivable, error) {
	var r models.Receivable
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return models.Receivable{}, lookupErr(err, msgReceivableNotFound)
	}
	return r, nil
}

// PayReceivable applies a payment to a receivable in one transaction.
func (s *Store) PayReceivable(ctx context.Context, id string, amount float64) (models.Receivable, error) {
	var r models.Receivable
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyPayment(tx, &models.Receivable{}, id, amount, msgReceivableNotFound); err != nil {
			return err
		}
		return tx.First(&r, "id = ?", id).Error
	})
	if err != nil {
		return models.Receivable{}, err
	}
	return r, nil
}

// ListPayables returns payables ordered by due date, optionally by status.
func (s *Store) ListPayables(ctx context.Context, status models.DebtStatus) ([]models.Payable, error) {
	var rows []models.Payable
	if err := debtQuery(s.db.WithContext(ctx), status).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}
	return rows, nil
}

// CreatePayable inserts a payable.
func (s *Store) CreatePayable(ctx context.Context, p *models.Payable) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert payable: %w", err)
	}
	return nil
}

// FindPayable loads a payable by id.
func (s *Store) FindPayable(ctx context.Context, id string) (models.Payable, error) {
	var p models.Payable
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return models.Payable{}, lookupErr(err, msgPayableNotFound)
	}
	return p, nil
}

// PayPayable applies a payment to a payable in one transaction.
func (s *Store) PayPayable(ctx context.Context, id string, amount float64) (models.Payable, error) {
	var p models.Payable
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyPayment(tx, &models.Payable{}, id, amount, msgPayableNotFound); err != nil {
			return err
		}
		return tx.First(&p, "id = ?", id).Error
	})
	if err != nil {
		return models.Payable{}, err
	}
	return p, nil
}

// applyPayment adds amount to a debt row in a single UPDATE so concurrent
// payments never overwrite each other. Status follows models.Debt.Refresh.
func applyPayment(tx *gorm.DB, model any, id string, amount float64, notFound string) error {
	paid := gorm.Expr("paid_so_far + ?", amount)
	res := tx.Model(model).Where("id = ?", id).Updates(map[string]any{
		"paid_so_far": paid,
		"remainder":   gorm.Expr("amount - (paid_so_far + ?)", amount),
		"status": gorm.Expr("CASE WHEN amount - (paid_so_far + ?) <= 0 THEN ? ELSE ? END",
			amount, string(models.DebtPaid), string(models.DebtUnpaid)),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("apply payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound(notFound)
	}
	return nil
}

func debtQuery(q *gorm.DB, status models.DebtStatus) *gorm.DB {
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q.Order("due_date asc")
}

// ListCash returns cash entries for one direction, newest first.
func (s *Store) ListCash(ctx context.Context, filter models.CashFilter) ([]models.CashEntry, error) {
	q := s.db.WithContext(ctx).Model(&models.CashEntry{})
	if filter.Direction != "" {
		q = q.Where("direction = ?", filter.Direction)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	q = dateRange(q, "date", filter.From, filter.To)

	var entries []models.CashEntry
	if err := q.Order("date desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list cash entries: %w", err)
	}
	return entries, nil
}

// VoucherExists reports whether a voucher number is already used for direction.
func (s *Store) VoucherExists(ctx context.Context, direction models.CashDirection, number string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CashEntry{}).
		Where("direction = ? AND voucher_number = ?", direction, number).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check voucher number: %w", err)
	}
	return count > 0, nil
}

// CreateCash inserts a cash entry.
func (s *Store) CreateCash(ctx context.Context, entry *models.CashEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return writeErr(err, msgVoucherExists)
	}
	return nil
}

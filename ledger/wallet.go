package ledger

import (
	"errors"
	"fmt"
	"time"

	"pns-delivery-api/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Wallet top-up flow. The customer requests a credit, the request is handed
// off to the external contact channel, and an admin approves it after the
// money arrives. The balance is only mutated here, against the audit record.

// RequestTopUp records a pending top-up for the user. reference carries the
// external handoff identifier (the contact-channel link).
func (l *Ledger) RequestTopUp(userID uint, amount float64, reference string) (*models.WalletTopUp, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: top-up amount must be positive", ErrInvalidInput)
	}
	var user models.User
	if err := l.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	topUp := models.WalletTopUp{
		UserID:      userID,
		Amount:      amount,
		Reference:   reference,
		Status:      models.TopUpPending,
		RequestedAt: time.Now(),
	}
	if err := l.db.Create(&topUp).Error; err != nil {
		return nil, fmt.Errorf("ledger.RequestTopUp: %w", err)
	}

	l.log.Info("wallet top-up requested",
		zap.Uint("user_id", userID),
		zap.Float64("amount", amount),
	)
	return &topUp, nil
}

// ApproveTopUp marks a pending top-up approved and credits the wallet in the
// same transaction.
func (l *Ledger) ApproveTopUp(topUpID, adminID uint) (*models.WalletTopUp, error) {
	var topUp models.WalletTopUp
	if err := l.db.First(&topUp, topUpID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: top-up %d", ErrNotFound, topUpID)
		}
		return nil, fmt.Errorf("ledger.ApproveTopUp: %w", err)
	}
	if topUp.Status != models.TopUpPending {
		return nil, fmt.Errorf("%w: top-up %d already resolved", ErrInvalidInput, topUpID)
	}

	now := time.Now()
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&topUp).Updates(map[string]interface{}{
			"status":      models.TopUpApproved,
			"approved_by": adminID,
			"resolved_at": now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", topUp.UserID).
			Update("wallet", gorm.Expr("wallet + ?", topUp.Amount)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("ledger.ApproveTopUp: %w", err)
	}

	l.log.Info("wallet top-up approved",
		zap.Uint("top_up_id", topUpID),
		zap.Uint("user_id", topUp.UserID),
		zap.Float64("amount", topUp.Amount),
	)
	topUp.Status = models.TopUpApproved
	topUp.ApprovedBy = &adminID
	topUp.ResolvedAt = &now
	return &topUp, nil
}

// ListTopUps returns top-up requests, optionally filtered by status
func (l *Ledger) ListTopUps(status models.TopUpStatus) ([]models.WalletTopUp, error) {
	var topUps []models.WalletTopUp
	query := l.db.Preload("User").Order("id desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&topUps).Error; err != nil {
		return nil, fmt.Errorf("ledger.ListTopUps: %w", err)
	}
	return topUps, nil
}

package payment

import (
	"errors"

	"raffle/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceRecord is one (token, account) balance row.
type BalanceRecord struct {
	Token   string `gorm:"primaryKey"`
	Account string `gorm:"primaryKey"`
	Amount  int64  `gorm:"not null"`
}

// GormBank persists balances over a gorm handle it does not own. Handing it
// a transaction-scoped handle makes its transfers part of that transaction,
// which is how storage keeps money movement and record writes atomic.
type GormBank struct {
	db *gorm.DB
}

func NewGormBank(db *gorm.DB) *GormBank {
	return &GormBank{
		db: db,
	}
}

func (b *GormBank) Deposit(token string, account string, amount int64) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		return credit(tx, token, account, amount)
	})
}

func (b *GormBank) Balance(token string, account string) (int64, error) {

	var record BalanceRecord
	err := b.db.Where("token = ? and account = ?", token, account).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return record.Amount, nil
}

func (b *GormBank) Transfer(token string, from string, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	logger.Debug(
		"transferring...",
		zap.String("token", token),
		zap.String("from", from),
		zap.String("to", to),
		zap.Int64("amount", amount),
	)

	err := b.db.Transaction(func(tx *gorm.DB) error {

		var record BalanceRecord
		err := tx.Where("token = ? and account = ?", token, from).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && record.Amount < amount) {
			return ErrInsufficientFunds
		}
		if err != nil {
			return err
		}

		err = tx.Model(&BalanceRecord{}).
			Where("token = ? and account = ?", token, from).
			Update("amount", record.Amount-amount).Error
		if err != nil {
			return err
		}

		return credit(tx, token, to, amount)
	})

	if err != nil {
		return err
	}

	logger.Debug("transferring... done")
	return nil
}

func credit(tx *gorm.DB, token string, account string, amount int64) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}, {Name: "account"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"amount": gorm.Expr("amount + ?", amount)}),
	}).Create(&BalanceRecord{
		Token:   token,
		Account: account,
		Amount:  amount,
	}).Error
}

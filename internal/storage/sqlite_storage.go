package storage

import (
	"errors"

	"raffle/internal/logger"
	"raffle/internal/payment"
	"raffle/internal/raffle"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(path string) *SqliteStorage {

	logger.Debug("initializing database...", zap.String("path", path))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	err = db.AutoMigrate(
		&RaffleRecord{},
		&TicketRecord{},
		&TicketCountRecord{},
		&TicketCounterRecord{},
		&RegistryRecord{},
		&payment.BalanceRecord{},
	)

	if err != nil {
		panic(err)
	}

	return &SqliteStorage{
		db: db,
	}
}

// Transact runs fn against a transaction-scoped storage and a bank bound to
// the same database transaction. Any error rolls both back together.
func (s *SqliteStorage) Transact(fn func(raffle.Storage, payment.Bank) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&SqliteStorage{db: tx}, payment.NewGormBank(tx))
	})
}

func (s *SqliteStorage) HasRaffle(id string) (bool, error) {

	var count int64
	err := s.db.Model(&RaffleRecord{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *SqliteStorage) GetRaffle(id string) (*raffle.Raffle, error) {

	var record RaffleRecord
	err := s.db.Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, raffle.ErrRaffleNotFound
	}
	if err != nil {
		return nil, err
	}

	return raffleFromRecord(&record), nil
}

func (s *SqliteStorage) SaveRaffle(r *raffle.Raffle) error {
	logger.Debug("saving raffle...", zap.String("id", r.ID))

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tickets_sold",
			"is_active",
			"prize_deposited",
			"prize_claimed",
			"revenue_withdrawn",
			"winner",
		}),
	}).Create(recordFromRaffle(r)).Error

	if err != nil {
		return err
	}

	logger.Debug("saving raffle... done")
	return nil
}

func (s *SqliteStorage) AppendTicket(raffleID string, t *raffle.Ticket) error {
	return s.db.Create(recordFromTicket(raffleID, t)).Error
}

func (s *SqliteStorage) GetTickets(raffleID string) ([]*raffle.Ticket, error) {

	var records []*TicketRecord
	err := s.db.Where("raffle_id = ?", raffleID).Order("ticket_number asc").Find(&records).Error
	if err != nil {
		return nil, err
	}

	tickets := make([]*raffle.Ticket, len(records))
	for i, record := range records {
		tickets[i] = ticketFromRecord(record)
	}

	return tickets, nil
}

func (s *SqliteStorage) GetTicketByID(raffleID string, ticketID uint32) (*raffle.Ticket, error) {

	var record TicketRecord
	err := s.db.Where("raffle_id = ? and ticket_id = ?", raffleID, ticketID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, raffle.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	return ticketFromRecord(&record), nil
}

func (s *SqliteStorage) GetTicketCount(raffleID string, buyer string) (uint32, error) {

	var record TicketCountRecord
	err := s.db.Where("raffle_id = ? and buyer = ?", raffleID, buyer).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return record.Count, nil
}

func (s *SqliteStorage) SetTicketCount(raffleID string, buyer string, count uint32) error {

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "raffle_id"}, {Name: "buyer"}},
		DoUpdates: clause.AssignmentColumns([]string{"count"}),
	}).Create(&TicketCountRecord{
		RaffleID: raffleID,
		Buyer:    buyer,
		Count:    count,
	}).Error

	if err != nil {
		return err
	}

	return nil
}

func (s *SqliteStorage) NextTicketID(raffleID string) (uint32, error) {

	var record TicketCounterRecord
	err := s.db.Where("raffle_id = ?", raffleID).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	next := record.LastID + 1
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "raffle_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_id"}),
	}).Create(&TicketCounterRecord{
		RaffleID: raffleID,
		LastID:   next,
	}).Error

	if err != nil {
		return 0, err
	}

	return next, nil
}

func (s *SqliteStorage) AppendRaffleID(id string) error {
	logger.Debug("appending raffle to registry...", zap.String("id", id))
	return s.db.Create(&RegistryRecord{RaffleID: id}).Error
}

func (s *SqliteStorage) GetRaffleIDs(offset int, limit int, newestFirst bool) ([]string, error) {

	order := "position asc"
	if newestFirst {
		order = "position desc"
	}

	var ids []string
	err := s.db.Model(&RegistryRecord{}).
		Order(order).
		Offset(offset).
		Limit(limit).
		Pluck("raffle_id", &ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (s *SqliteStorage) CountRaffles() (int, error) {

	var count int64
	err := s.db.Model(&RegistryRecord{}).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

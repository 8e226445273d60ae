package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/config"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/events"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/repository"
	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/utils"
)

const counterKindSavings = "savings"

// SavingsService maintains the per-student savings ledger. The ledger is
// append-only with carried balances; only the chronological tail may be
// corrected or removed, so every balance_after downstream stays valid.
type SavingsService struct {
	StudentRepo repository.StudentRepository
	SavingsRepo repository.SavingsRepository
	CounterRepo repository.CounterRepository
	txm         repository.TxManager
	redis       *redis.Client
	publisher   events.Publisher
	config      *config.Config
}

func NewSavingsService(
	studentRepo repository.StudentRepository,
	savingsRepo repository.SavingsRepository,
	counterRepo repository.CounterRepository,
	txm repository.TxManager,
	redisClient *redis.Client,
	publisher events.Publisher,
	config *config.Config,
) *SavingsService {
	return &SavingsService{
		StudentRepo: studentRepo,
		SavingsRepo: savingsRepo,
		CounterRepo: counterRepo,
		txm:         txm,
		redis:       redisClient,
		publisher:   publisher,
		config:      config,
	}
}

func balanceCacheKey(studentID uuid.UUID) string {
	return fmt.Sprintf("savings:balance:%s", studentID)
}

// latestBalance reads the ledger tail's balance_after; zero for an empty ledger.
func (s *SavingsService) latestBalance(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID) (decimal.Decimal, error) {
	latest, err := s.SavingsRepo.GetLatest(ctx, tx, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}
	return latest.BalanceAfter, nil
}

// CurrentBalance returns the student's savings balance, served from the redis
// cache when possible.
func (s *SavingsService) CurrentBalance(ctx context.Context, studentID uuid.UUID) (*domain.BalanceResponse, error) {
	if _, err := s.StudentRepo.GetByID(ctx, studentID); errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapStudentNotFound(studentID.String())
	} else if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, balanceCacheKey(studentID)).Result(); err == nil {
			if balance, parseErr := decimal.NewFromString(cached); parseErr == nil {
				return &domain.BalanceResponse{StudentID: studentID, Balance: balance}, nil
			}
		}
	}

	balance, err := s.latestBalance(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		s.redis.Set(ctx, balanceCacheKey(studentID), balance.String(), s.config.GetBalanceCacheTTL())
	}

	return &domain.BalanceResponse{StudentID: studentID, Balance: balance}, nil
}

// History returns the student's ledger ordered by (transaction_date, entry_seq).
func (s *SavingsService) History(ctx context.Context, studentID uuid.UUID) ([]*domain.SavingsTransaction, error) {
	if _, err := s.StudentRepo.GetByID(ctx, studentID); errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapStudentNotFound(studentID.String())
	} else if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	transactions, err := s.SavingsRepo.List(ctx, studentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return transactions, nil
}

// RecordTransaction appends a deposit or withdrawal to the ledger. Withdrawals
// exceeding the current balance are rejected with nothing written.
func (s *SavingsService) RecordTransaction(ctx context.Context, request *domain.RecordSavingsRequest) (*domain.SavingsTransaction, error) {
	if _, err := s.StudentRepo.GetByID(ctx, request.StudentID); errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapStudentNotFound(request.StudentID.String())
	} else if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	transaction := &domain.SavingsTransaction{
		ID:              uuid.New(),
		StudentID:       request.StudentID,
		Type:            request.Type,
		Amount:          request.Amount,
		TransactionDate: request.TransactionDate,
		Description:     request.Description,
		CreatedBy:       request.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.StudentRepo.LockStudent(ctx, tx, request.StudentID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		balance := decimal.Zero
		latest, err := s.SavingsRepo.GetLatest(ctx, tx, request.StudentID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return customError.WrapDatabaseError(err)
		}
		if err == nil {
			// New entries must not sort before the tail, or the carried
			// balance chain would no longer match the ledger order.
			if request.TransactionDate.Before(latest.TransactionDate) {
				return customError.WrapBackdatedEntry(request.TransactionDate, latest.TransactionDate)
			}
			balance = latest.BalanceAfter
		}

		if request.Type == domain.SavingsTypeWithdrawal && request.Amount.GreaterThan(balance) {
			return customError.WrapInsufficientFunds(balance, request.Amount)
		}

		transaction.BalanceBefore = balance
		transaction.BalanceAfter = balance.Add(transaction.SignedAmount())

		sequence, err := s.CounterRepo.Next(ctx, tx, counterKindSavings, request.TransactionDate.Year())
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		transaction.TransactionNumber = utils.FormatTransactionNumber(
			s.config.Business.SavingsReceiptPrefix, request.TransactionDate.Year(), sequence)

		if err := s.SavingsRepo.Create(ctx, tx, transaction); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalance(ctx, request.StudentID)
	s.publish(ctx, events.NewEvent(events.TypeSavingsRecorded,
		transaction.StudentID, transaction.ID, transaction.TransactionNumber, transaction.Amount.String()))

	return transaction, nil
}

// UpdateLastTransaction corrects the ledger tail. The balance is recomputed
// from the entry's balance_before, which is the immutable balance_after of the
// previous entry.
func (s *SavingsService) UpdateLastTransaction(ctx context.Context, transactionID uuid.UUID, request *domain.UpdateSavingsRequest) (*domain.SavingsTransaction, error) {
	transaction, err := s.SavingsRepo.GetByID(ctx, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapTransactionNotFound(transactionID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	err = s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.StudentRepo.LockStudent(ctx, tx, transaction.StudentID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		latest, err := s.SavingsRepo.GetLatest(ctx, tx, transaction.StudentID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if latest.ID != transaction.ID {
			return customError.WrapNotLastEntry("savings transaction")
		}

		// The corrected date must not move the tail behind its
		// predecessor, or the entry would stop being the tail.
		preceding, err := s.SavingsRepo.GetPreceding(ctx, tx, transaction.StudentID, transaction.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return customError.WrapDatabaseError(err)
		}
		if err == nil && request.TransactionDate.Before(preceding.TransactionDate) {
			return customError.WrapBackdatedEntry(request.TransactionDate, preceding.TransactionDate)
		}

		balanceBefore := latest.BalanceBefore
		if request.Type == domain.SavingsTypeWithdrawal && request.Amount.GreaterThan(balanceBefore) {
			return customError.WrapInsufficientFunds(balanceBefore, request.Amount)
		}

		transaction.Type = request.Type
		transaction.Amount = request.Amount
		transaction.TransactionDate = request.TransactionDate
		transaction.Description = request.Description
		transaction.BalanceBefore = balanceBefore
		transaction.BalanceAfter = balanceBefore.Add(transaction.SignedAmount())
		transaction.UpdatedAt = time.Now()

		if err := s.SavingsRepo.Update(ctx, tx, transaction); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalance(ctx, transaction.StudentID)
	s.publish(ctx, events.NewEvent(events.TypeSavingsUpdated,
		transaction.StudentID, transaction.ID, transaction.TransactionNumber, transaction.Amount.String()))

	return transaction, nil
}

// DeleteLastTransaction removes the ledger tail. Earlier entries are immutable.
func (s *SavingsService) DeleteLastTransaction(ctx context.Context, transactionID uuid.UUID) error {
	transaction, err := s.SavingsRepo.GetByID(ctx, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapTransactionNotFound(transactionID.String())
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	err = s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.StudentRepo.LockStudent(ctx, tx, transaction.StudentID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		latest, err := s.SavingsRepo.GetLatest(ctx, tx, transaction.StudentID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if latest.ID != transaction.ID {
			return customError.WrapNotLastEntry("savings transaction")
		}

		if err := s.SavingsRepo.Delete(ctx, tx, transaction.ID); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateBalance(ctx, transaction.StudentID)
	s.publish(ctx, events.NewEvent(events.TypeSavingsDeleted,
		transaction.StudentID, transaction.ID, transaction.TransactionNumber, transaction.Amount.String()))

	return nil
}

func (s *SavingsService) invalidateBalance(ctx context.Context, studentID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, balanceCacheKey(studentID)).Err(); err != nil {
		log.Printf("invalidate balance cache for %s: %v", studentID, err)
	}
}

func (s *SavingsService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish %s event: %v", event.Type, err)
	}
}

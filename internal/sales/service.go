package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/internal/items"
	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/outbox"
	"github.com/discfound/discfound-backend/pkg/outbox/payloads"
	"github.com/discfound/discfound-backend/pkg/square"
)

// Service records the sale of unclaimed discs.
type Service interface {
	RecordSale(ctx context.Context, itemID uuid.UUID, input RecordSaleInput) (*items.ItemDTO, error)
}

// RecordSaleInput describes one over-the-counter sale. PaymentSourceID is the
// card nonce, required whenever Square is configured.
type RecordSaleInput struct {
	Price             decimal.Decimal
	PaymentSourceID   string
	BuyerProfileID    *uuid.UUID
	Note              *string
	OperatorProfileID uuid.UUID
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type paymentCreator interface {
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*sq.Payment, error)
	NewIdempotencyKey(prefix string) string
}

type service struct {
	tx       txRunner
	repo     Repository
	outbox   outboxPublisher
	payments paymentCreator
	cfg      config.SquareConfig
	logg     *logger.Logger
}

// NewService constructs the sale recorder. The payment client may be nil when
// Square is not configured; sales are then recorded without a payment ref.
func NewService(tx txRunner, repo Repository, outboxSvc outboxPublisher, payments paymentCreator, cfg config.SquareConfig, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Enabled() && payments == nil {
		return nil, fmt.Errorf("square is configured but payment client is missing")
	}
	return &service{tx: tx, repo: repo, outbox: outboxSvc, payments: payments, cfg: cfg, logg: logg}, nil
}

// RecordSale charges the buyer through Square, then flips the item to sold
// and emits item_sold in one transaction. The payment happens first so a
// declined card never leaves a sold item behind; a transaction failure after
// capture is logged with the payment ref for manual follow-up.
func (s *service) RecordSale(ctx context.Context, itemID uuid.UUID, input RecordSaleInput) (*items.ItemDTO, error) {
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price must be positive")
	}
	cents := input.Price.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price must have at most two decimal places")
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Disposition != enums.DispositionAvailableForSale {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item is not available for sale")
	}

	paymentRef, err := s.capturePayment(ctx, item.ID, input, cents.IntPart())
	if err != nil {
		return nil, err
	}

	soldAt := time.Now().UTC()
	var updated *items.ItemDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindItemByID(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("reload item: %w", err)
		}
		if current.Disposition != enums.DispositionAvailableForSale {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item is not available for sale")
		}

		current.Disposition = enums.DispositionSold
		current.SalePrice = &input.Price
		current.SalePaymentRef = paymentRef
		current.ClaimCodeHash = nil

		saved, err := repo.SaveItem(ctx, current)
		if err != nil {
			return fmt.Errorf("save sold item: %w", err)
		}

		event := payloads.ItemSoldEvent{
			ItemID:         saved.ID,
			SalePrice:      input.Price,
			PaymentRef:     stringValue(paymentRef),
			BuyerProfileID: input.BuyerProfileID,
			SoldAt:         soldAt,
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventItemSold,
			AggregateType: enums.AggregateFoundItem,
			AggregateID:   saved.ID,
			Actor:         &outbox.ActorRef{UserID: input.OperatorProfileID, Role: enums.RoleOperator.String()},
			Data:          event,
			Version:       1,
			OccurredAt:    soldAt,
		}); err != nil {
			return fmt.Errorf("emit item_sold: %w", err)
		}

		updated = items.FromModel(saved)
		return nil
	})
	if txErr != nil {
		if paymentRef != nil {
			failCtx := s.logg.WithFields(ctx, map[string]any{
				"item_id":     item.ID.String(),
				"payment_ref": *paymentRef,
			})
			s.logg.Error(failCtx, "sale.tx_failed_after_capture", txErr)
		}
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "record sale")
	}

	return updated, nil
}

// capturePayment runs the Square charge when payments are configured. With no
// Square credentials the sale is recorded cash-drawer style, ref-less.
func (s *service) capturePayment(ctx context.Context, itemID uuid.UUID, input RecordSaleInput, amountCents int64) (*string, error) {
	if s.payments == nil || !s.cfg.Enabled() {
		return nil, nil
	}

	sourceID := strings.TrimSpace(input.PaymentSourceID)
	if sourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}

	params := square.PaymentCreateParams{
		AmountCents:    amountCents,
		Currency:       s.cfg.Currency,
		LocationID:     s.cfg.LocationID,
		SourceID:       sourceID,
		IdempotencyKey: s.payments.NewIdempotencyKey("sale"),
		ReferenceID:    itemID.String(),
	}
	if input.Note != nil {
		params.Note = strings.TrimSpace(*input.Note)
	}

	payment, err := s.payments.CreatePayment(ctx, params)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.GetID() == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square returned no payment id")
	}
	return payment.GetID(), nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.FoundItem, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

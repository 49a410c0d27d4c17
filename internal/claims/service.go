package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/internal/contacts"
	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/internal/items"
	"github.com/discfound/discfound-backend/internal/sources"
	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/security"
)

// Template placeholders operators can use in source SMS templates.
const (
	placeholderCode = "{code}"
	placeholderLink = "{link}"
)

// Service exposes the claim-link lifecycle: mint, public lookup, redeem.
type Service interface {
	MintClaimLink(ctx context.Context, itemID uuid.UUID, input MintClaimLinkInput) (*ClaimLinkDTO, error)
	LookupToken(ctx context.Context, token string) (*PublicItemDTO, error)
	Redeem(ctx context.Context, itemID uuid.UUID, input RedeemInput) (*items.ItemDTO, error)
}

// MintClaimLinkInput records who minted the link and optionally fills in the
// presumed owner's details at the same time.
type MintClaimLinkInput struct {
	OperatorProfileID uuid.UUID
	OperatorName      *string
	OwnerName         *string
	OwnerPhone        *string
}

// RedeemInput carries the pickup code presented at the counter plus audit
// fields for the handover.
type RedeemInput struct {
	Code              string
	OperatorProfileID uuid.UUID
	ReturnedByName    *string
	OwnerName         *string
	OwnerPhone        *string
}

type itemStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error)
	Save(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error)
}

type sourceStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.SourceLocation, error)
}

type attemptRecorder interface {
	RecordAttempt(ctx context.Context, input contacts.RecordAttemptInput) (*contacts.ContactAttemptDTO, error)
}

type service struct {
	items    itemStore
	sources  sourceStore
	contacts attemptRecorder
	tokens   config.ClaimTokenConfig
	security config.SecurityConfig
}

// NewService constructs a claim service instance.
func NewService(itemRepo *items.Repository, sourceRepo *sources.Repository, contactSvc contacts.Service, tokenCfg config.ClaimTokenConfig, securityCfg config.SecurityConfig) (Service, error) {
	if itemRepo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if sourceRepo == nil {
		return nil, fmt.Errorf("source repository required")
	}
	if contactSvc == nil {
		return nil, fmt.Errorf("contact service required")
	}
	return &service{
		items:    itemRepo,
		sources:  sourceRepo,
		contacts: contactSvc,
		tokens:   tokenCfg,
		security: securityCfg,
	}, nil
}

// MintClaimLink issues a signed claim link plus a short pickup code for an
// item still on the shelf, stores the code's hash on the item, and records
// the rendered SMS as a contact attempt.
func (s *service) MintClaimLink(ctx context.Context, itemID uuid.UUID, input MintClaimLinkInput) (*ClaimLinkDTO, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Disposition.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item already left the shelf")
	}

	now := time.Now().UTC()
	token, err := MintClaimToken(s.tokens, now, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint claim token")
	}

	code, err := security.GenerateClaimCode(s.security.ClaimCodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate pickup code")
	}
	hash, err := security.HashClaimCode(code, s.security)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pickup code")
	}

	item.ClaimCodeHash = &hash
	if name := trimPtrOrNil(input.OwnerName); name != nil {
		item.OwnerName = name
	}
	if phone := trimPtrOrNil(input.OwnerPhone); phone != nil {
		normalized, _ := mapping.NormalizePhone(*phone)
		if normalized == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner phone must contain digits")
		}
		item.OwnerPhone = normalized
	}

	if _, err := s.items.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: store claim code")
	}

	link := s.claimURL(token)
	message := s.renderMessage(ctx, item, code, link)

	attempt, err := s.contacts.RecordAttempt(ctx, contacts.RecordAttemptInput{
		FoundItemID:          item.ID,
		Method:               enums.ContactMethodSMS,
		Message:              &message,
		AttemptedByProfileID: &input.OperatorProfileID,
		AttemptedByName:      trimPtrOrNil(input.OperatorName),
	})
	if err != nil {
		return nil, err
	}

	return &ClaimLinkDTO{
		ItemID:     item.ID,
		Token:      token,
		ClaimURL:   link,
		PickupCode: code,
		Message:    message,
		ExpiresAt:  now.Add(s.tokens.TokenTTL),
		Attempt:    attempt,
	}, nil
}

// LookupToken resolves a claim-link token to the public view of its item.
func (s *service) LookupToken(ctx context.Context, token string) (*PublicItemDTO, error) {
	parsed, err := ParseClaimToken(s.tokens, strings.TrimSpace(token))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired claim link")
	}

	item, err := s.loadItem(ctx, parsed.ItemID)
	if err != nil {
		return nil, err
	}

	var sourceName *string
	if item.SourceLocationID != nil {
		if source, srcErr := s.sources.FindByID(ctx, *item.SourceLocationID); srcErr == nil && source != nil {
			sourceName = &source.Name
		}
	}

	return publicItemFromModel(item, sourceName), nil
}

// Redeem verifies the pickup code and hands the item back to its owner. The
// stored hash is cleared so a code cannot be replayed.
func (s *service) Redeem(ctx context.Context, itemID uuid.UUID, input RedeemInput) (*items.ItemDTO, error) {
	if strings.TrimSpace(input.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup code is required")
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ClaimCodeHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no active claim link for this item")
	}
	if item.Disposition.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item already left the shelf")
	}

	match, err := security.VerifyClaimCode(input.Code, *item.ClaimCodeHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify pickup code")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pickup code does not match")
	}

	now := time.Now().UTC()
	item.Disposition = enums.DispositionReturnedToOwner
	item.ReturnedAt = &now
	item.ReturnedByProfileID = &input.OperatorProfileID
	item.ClaimCodeHash = nil
	if name := trimPtrOrNil(input.ReturnedByName); name != nil {
		item.ReturnedByName = name
	}
	if name := trimPtrOrNil(input.OwnerName); name != nil {
		item.OwnerName = name
	}
	if phone := trimPtrOrNil(input.OwnerPhone); phone != nil {
		normalized, _ := mapping.NormalizePhone(*phone)
		if normalized == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner phone must contain digits")
		}
		item.OwnerPhone = normalized
	}

	updated, err := s.items.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: redeem claim")
	}
	return items.FromModel(updated), nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.FoundItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) claimURL(token string) string {
	base := strings.TrimRight(s.tokens.BaseURL, "/")
	if base == "" {
		return token
	}
	return base + "/" + token
}

// renderMessage fills the source's SMS template, or falls back to a plain
// message when the item has no source or the source has no template.
func (s *service) renderMessage(ctx context.Context, item *models.FoundItem, code, link string) string {
	var template string
	if item.SourceLocationID != nil {
		if source, err := s.sources.FindByID(ctx, *item.SourceLocationID); err == nil && source != nil && source.SMSInitialTemplate != nil {
			template = *source.SMSInitialTemplate
		}
	}
	if strings.TrimSpace(template) == "" {
		template = "We think we found your disc! Confirm it at " + placeholderLink + " and bring pickup code " + placeholderCode + "."
	}

	rendered := strings.ReplaceAll(template, placeholderCode, code)
	rendered = strings.ReplaceAll(rendered, placeholderLink, link)
	return rendered
}

func trimPtrOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

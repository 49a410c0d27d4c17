package visibility

import (
	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
)

// ItemVisibilityInput drives the shared visibility checks for member-facing
// item queries.
type ItemVisibilityInput struct {
	Item      *models.FoundItem
	ActorID   *uuid.UUID
	ActorRole enums.ProfileRole
}

// EnsureItemVisible enforces canonical rules so returned, donated or
// discarded items never leak through member queries. Operators see
// everything; matched owners see their own items regardless of disposition.
func EnsureItemVisible(input ItemVisibilityInput) error {
	if input.Item == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if input.ActorRole == enums.RoleOperator {
		return nil
	}
	if input.ActorID != nil && input.Item.OwnerProfileID != nil && *input.ActorID == *input.Item.OwnerProfileID {
		return nil
	}
	if input.Item.Disposition.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item no longer available")
	}
	if input.Item.Disposition == enums.DispositionAvailableForSale && input.ActorRole != enums.RoleCollector {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not available")
	}
	return nil
}

// MaskItem strips owner contact details from an item before it is shown to
// anyone other than the owner or an operator.
func MaskItem(item *models.FoundItem, actorID *uuid.UUID, role enums.ProfileRole) *models.FoundItem {
	if item == nil {
		return nil
	}
	if role == enums.RoleOperator {
		return item
	}
	if actorID != nil && item.OwnerProfileID != nil && *actorID == *item.OwnerProfileID {
		return item
	}
	masked := *item
	masked.OwnerPhone = nil
	masked.OwnerName = nil
	masked.ClaimCodeHash = nil
	return &masked
}

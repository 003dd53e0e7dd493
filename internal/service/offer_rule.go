package service

import (
	"context"
	"errors"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

type offerTimeRule struct {
	offerRepo repository.OfferRepository
}

// NewOfferTimeRule resolves offer billing kinds from the offer catalog. A
// reservation without an offer, or whose offer has been deleted, bills under
// the full-day rule.
func NewOfferTimeRule(offerRepo repository.OfferRepository) OfferTimeRule {
	return &offerTimeRule{offerRepo: offerRepo}
}

func (o *offerTimeRule) Resolve(ctx context.Context, offerID *int32) (domain.OfferKind, string, error) {
	if offerID == nil {
		return domain.OfferKindFullDay, "", nil
	}
	offer, err := o.offerRepo.GetByID(ctx, *offerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OfferKindFullDay, "", nil
		}
		return "", "", err
	}
	kind := offer.Kind
	if kind == "" {
		kind = domain.OfferKindFullDay
	}
	return kind, offer.Name, nil
}

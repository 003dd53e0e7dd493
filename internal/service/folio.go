package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository"
	"innsync-backend/internal/stay"
)

// stayChargeDescription renders the stay line's human-readable description,
// carrying the offer name and the billed date range onto the bill itself.
func stayChargeDescription(offerName string, from, to time.Time) string {
	dates := from.Format("2006-01-02") + " to " + to.Format("2006-01-02")
	if offerName == "" {
		return "Room charge " + dates
	}
	return "Room charge (" + offerName + ") " + dates
}

type folioService struct {
	store       repository.Atomic
	folioRepo   repository.FolioRepository
	timeRule    OfferTimeRule
	businessDay BusinessDayService
	nightAudit  NightAuditService
	taxRate     decimal.Decimal
}

func NewFolioService(
	store repository.Atomic,
	folioRepo repository.FolioRepository,
	timeRule OfferTimeRule,
	businessDay BusinessDayService,
	nightAudit NightAuditService,
	taxRatePercent float64,
) FolioService {
	return &folioService{
		store:       store,
		folioRepo:   folioRepo,
		timeRule:    timeRule,
		businessDay: businessDay,
		nightAudit:  nightAudit,
		taxRate:     decimal.NewFromFloat(taxRatePercent),
	}
}

func (s *folioService) EnsureMainFolio(ctx context.Context, r repository.Registry, res *domain.Reservation) (*domain.Folio, error) {
	folio, err := r.Folios.GetMainByReservation(ctx, res.ID)
	if err == nil {
		return folio, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	folio = &domain.Folio{
		TenantID:      res.TenantID,
		HotelID:       res.HotelID,
		ReservationID: res.ID,
		GuestID:       res.GuestID,
		Code:          "F-" + res.Code,
		IsMain:        true,
		Status:        domain.FolioStatusOpen,
		Currency:      res.Currency,
		ChargesTotal:  decimal.Zero,
		PaymentsTotal: decimal.Zero,
		Balance:       decimal.Zero,
	}
	if err := r.Folios.Create(ctx, folio); err != nil {
		return nil, err
	}
	return folio, nil
}

// SyncStayCharge makes the folio's stay lines reflect the reservation's
// current dates, room and rate. Running it twice in a row changes nothing.
// Missing or non-positive date ranges have nothing to bill and sync nothing.
func (s *folioService) SyncStayCharge(ctx context.Context, r repository.Registry, res *domain.Reservation) error {
	if res.CheckInDate.IsZero() || res.CheckOutDate.IsZero() || !res.CheckInDate.Before(res.CheckOutDate) {
		return nil
	}

	folio, err := s.EnsureMainFolio(ctx, r, res)
	if err != nil {
		return err
	}
	if folio.Status == domain.FolioStatusClosed {
		return domain.ErrFolioClosed
	}

	kind, offerName, err := s.timeRule.Resolve(ctx, res.OfferID)
	if err != nil {
		return err
	}

	units := stay.BillableUnits(kind, res.CheckInDate, res.CheckOutDate)
	desired := s.buildStayItem(folio.ID, res.UnitPrice, units, offerName, res.CheckInDate, res.CheckOutDate, res.RoomID)

	existing, err := r.Folios.ListStayItems(ctx, folio.ID)
	if err != nil {
		return err
	}

	// Overwrite the first stay line in place and drop any extras so a sync
	// collapses earlier segmentation back to a single line.
	if len(existing) > 0 {
		desired.ID = existing[0].ID
		if err := r.Folios.UpdateItem(ctx, desired); err != nil {
			return err
		}
		for _, extra := range existing[1:] {
			if err := r.Folios.DeleteItem(ctx, extra.ID); err != nil {
				return err
			}
		}
	} else {
		if err := r.Folios.CreateItem(ctx, desired); err != nil {
			return err
		}
	}

	return s.recomputeTotals(ctx, r, folio)
}

// ResegmentForRoomChange splits the stay billing at the pivot date. Segments
// fully before the pivot are preserved as billed at their original rate, a
// segment spanning the pivot is truncated to end there at the old rate, and
// one new segment on the new room covers [pivot, check-out) at the new rate.
// Split quantities always sum to what an unsegmented sync would have billed.
func (s *folioService) ResegmentForRoomChange(ctx context.Context, r repository.Registry, res *domain.Reservation, oldRoom, newRoom *domain.Room, pivotDate time.Time, oldRate, newRate decimal.Decimal) error {
	folio, err := s.EnsureMainFolio(ctx, r, res)
	if err != nil {
		return err
	}
	if folio.Status == domain.FolioStatusClosed {
		return domain.ErrFolioClosed
	}

	kind, offerName, err := s.timeRule.Resolve(ctx, res.OfferID)
	if err != nil {
		return err
	}

	pivot := stay.ClampDate(pivotDate, res.CheckInDate, res.CheckOutDate)

	existing, err := r.Folios.ListStayItems(ctx, folio.ID)
	if err != nil {
		return err
	}

	// Units displaced past the pivot accumulate into the tail segment so the
	// split never bills more or fewer units than before.
	tailUnits := int32(0)
	sawSegment := false
	for _, item := range existing {
		sawSegment = true
		from, to := s.segmentBounds(&item, res)
		switch {
		case !to.After(pivot):
			// Fully billed before the pivot; leave untouched.
		case !from.Before(pivot):
			// Entirely after the pivot; superseded by the new segment.
			tailUnits += item.Quantity
			if err := r.Folios.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
		default:
			preUnits, postUnits := stay.SplitUnits(kind, from, to, pivot)
			tailUnits += postUnits
			truncated := s.buildStayItem(folio.ID, oldRate, preUnits, offerName, from, pivot, s.segmentRoomID(&item, oldRoom))
			truncated.ID = item.ID
			if err := r.Folios.UpdateItem(ctx, truncated); err != nil {
				return err
			}
		}
	}
	if !sawSegment {
		tailUnits = stay.BillableUnits(kind, pivot, res.CheckOutDate)
	}

	if pivot.Before(res.CheckOutDate) && tailUnits > 0 {
		newRoomID := &newRoom.ID
		tail := s.buildStayItem(folio.ID, newRate, tailUnits, offerName, pivot, res.CheckOutDate, newRoomID)
		if err := r.Folios.CreateItem(ctx, tail); err != nil {
			return err
		}
	}

	return s.recomputeTotals(ctx, r, folio)
}

func (s *folioService) AddAdjustment(ctx context.Context, folioID int32, req AdjustmentRequest, actor *domain.Actor) (*domain.FolioItem, error) {
	logger.EnterMethod("FolioService.AddAdjustment", "folioID", folioID, "type", req.Type)

	var created *domain.FolioItem
	err := s.store.WithinTx(ctx, func(r repository.Registry) error {
		folio, err := r.Folios.GetByID(ctx, folioID)
		if err != nil {
			return err
		}
		if folio.Status == domain.FolioStatusClosed {
			return domain.ErrFolioClosed
		}

		businessDate, err := s.currentBusinessDate(ctx, r, folio.HotelID)
		if err != nil {
			return err
		}
		if err := s.nightAudit.AssertOpen(ctx, r, folio.HotelID, businessDate, actor, req.Override); err != nil {
			return err
		}

		if req.Quantity <= 0 {
			req.Quantity = 1
		}
		net := req.UnitPrice.Mul(decimal.NewFromInt32(req.Quantity))
		tax := net.Mul(s.taxRate).Div(decimal.NewFromInt(100)).Round(2)

		item := &domain.FolioItem{
			FolioID:      folioID,
			Type:         req.Type,
			Description:  req.Description,
			Quantity:     req.Quantity,
			UnitPrice:    req.UnitPrice,
			TaxAmount:    tax,
			NetAmount:    net,
			TotalAmount:  net.Add(tax),
			BusinessDate: businessDate,
		}
		if err := r.Folios.CreateItem(ctx, item); err != nil {
			return err
		}
		created = item
		return s.recomputeTotals(ctx, r, folio)
	})
	if err != nil {
		logger.ExitMethodWithError("FolioService.AddAdjustment", err)
		return nil, err
	}
	logger.ExitMethod("FolioService.AddAdjustment", "itemID", created.ID)
	return created, nil
}

func (s *folioService) RecordPayment(ctx context.Context, folioID int32, req PaymentRequest, actor *domain.Actor) (*domain.FolioPayment, error) {
	logger.EnterMethod("FolioService.RecordPayment", "folioID", folioID, "method", req.Method)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	var created *domain.FolioPayment
	err := s.store.WithinTx(ctx, func(r repository.Registry) error {
		folio, err := r.Folios.GetByID(ctx, folioID)
		if err != nil {
			return err
		}
		if folio.Status == domain.FolioStatusClosed {
			return domain.ErrFolioClosed
		}

		businessDate, err := s.currentBusinessDate(ctx, r, folio.HotelID)
		if err != nil {
			return err
		}
		if err := s.nightAudit.AssertOpen(ctx, r, folio.HotelID, businessDate, actor, req.Override); err != nil {
			return err
		}

		payment := &domain.FolioPayment{
			FolioID:      folioID,
			Amount:       req.Amount,
			Method:       req.Method,
			Reference:    req.Reference,
			Status:       domain.PaymentStatusPosted,
			BusinessDate: businessDate,
		}
		if err := r.Folios.CreatePayment(ctx, payment); err != nil {
			return err
		}
		created = payment
		return s.recomputeTotals(ctx, r, folio)
	})
	if err != nil {
		logger.ExitMethodWithError("FolioService.RecordPayment", err)
		return nil, err
	}
	logger.ExitMethod("FolioService.RecordPayment", "paymentID", created.ID)
	return created, nil
}

// VoidPayment reverses a posted payment. The original row is kept with a void
// marker rather than deleted, so the payment history stays complete.
func (s *folioService) VoidPayment(ctx context.Context, paymentID int32, reason string, actor *domain.Actor) (*domain.FolioPayment, error) {
	logger.EnterMethod("FolioService.VoidPayment", "paymentID", paymentID)

	var voided *domain.FolioPayment
	err := s.store.WithinTx(ctx, func(r repository.Registry) error {
		payment, err := r.Folios.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status == domain.PaymentStatusVoided {
			voided = payment
			return nil
		}

		folio, err := r.Folios.GetByID(ctx, payment.FolioID)
		if err != nil {
			return err
		}
		if folio.Status == domain.FolioStatusClosed {
			return domain.ErrFolioClosed
		}

		businessDate, err := s.currentBusinessDate(ctx, r, folio.HotelID)
		if err != nil {
			return err
		}
		if err := s.nightAudit.AssertOpen(ctx, r, folio.HotelID, businessDate, actor, actor.CanOverrideClosedDay()); err != nil {
			return err
		}

		now := time.Now()
		payment.Status = domain.PaymentStatusVoided
		payment.VoidReason = reason
		payment.VoidedBy = &actor.ID
		payment.VoidedAt = &now
		if err := r.Folios.UpdatePayment(ctx, payment); err != nil {
			return err
		}
		voided = payment
		return s.recomputeTotals(ctx, r, folio)
	})
	if err != nil {
		logger.ExitMethodWithError("FolioService.VoidPayment", err)
		return nil, err
	}
	logger.ExitMethod("FolioService.VoidPayment", "paymentID", paymentID)
	return voided, nil
}

func (s *folioService) GenerateInvoice(ctx context.Context, folioID int32, closeFolio bool, actor *domain.Actor) (*domain.Invoice, error) {
	logger.EnterMethod("FolioService.GenerateInvoice", "folioID", folioID, "close", closeFolio)

	var invoice *domain.Invoice
	err := s.store.WithinTx(ctx, func(r repository.Registry) error {
		folio, err := r.Folios.GetByID(ctx, folioID)
		if err != nil {
			return err
		}
		if folio.Status == domain.FolioStatusClosed {
			return domain.ErrFolioClosed
		}

		items, err := r.Folios.ListItems(ctx, folioID)
		if err != nil {
			return err
		}

		now := time.Now()
		inv := &domain.Invoice{
			HotelID:  folio.HotelID,
			FolioID:  folio.ID,
			Number:   fmt.Sprintf("INV-%s-%s", folio.Code, uuid.New().String()[:8]),
			Currency: folio.Currency,
			IssuedAt: now,
			Subtotal: decimal.Zero,
			TaxTotal: decimal.Zero,
			Total:    decimal.Zero,
		}
		for _, item := range items {
			inv.Lines = append(inv.Lines, domain.InvoiceLine{
				FolioItemID: item.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TaxAmount:   item.TaxAmount,
				TotalAmount: item.TotalAmount,
			})
			inv.Subtotal = inv.Subtotal.Add(item.NetAmount)
			inv.TaxTotal = inv.TaxTotal.Add(item.TaxAmount)
			inv.Total = inv.Total.Add(item.TotalAmount)
		}

		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}

		// An interim invoice leaves the ledger open for further postings.
		if closeFolio {
			folio.Status = domain.FolioStatusClosed
			if err := r.Folios.Update(ctx, folio); err != nil {
				return err
			}
		}
		invoice = inv
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("FolioService.GenerateInvoice", err)
		return nil, err
	}
	logger.ExitMethod("FolioService.GenerateInvoice", "invoiceID", invoice.ID)
	return invoice, nil
}

func (s *folioService) GetFolio(ctx context.Context, folioID int32) (*domain.Folio, []domain.FolioItem, []domain.FolioPayment, error) {
	folio, err := s.folioRepo.GetByID(ctx, folioID)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := s.folioRepo.ListItems(ctx, folioID)
	if err != nil {
		return nil, nil, nil, err
	}
	payments, err := s.folioRepo.ListPayments(ctx, folioID)
	if err != nil {
		return nil, nil, nil, err
	}
	return folio, items, payments, nil
}

// buildStayItem prices one stay segment. Amounts always derive from the
// segment's rate and billable units; stay lines are never edited by hand.
func (s *folioService) buildStayItem(folioID int32, rate decimal.Decimal, units int32, offerName string, from, to time.Time, roomID *int32) *domain.FolioItem {
	net := rate.Mul(decimal.NewFromInt32(units))
	tax := net.Mul(s.taxRate).Div(decimal.NewFromInt(100)).Round(2)

	meta := map[string]string{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	}
	if roomID != nil {
		meta["room_id"] = fmt.Sprintf("%d", *roomID)
	}

	return &domain.FolioItem{
		FolioID:      folioID,
		Type:         domain.FolioItemTypeStay,
		Description:  stayChargeDescription(offerName, from, to),
		Quantity:     units,
		UnitPrice:    rate,
		TaxAmount:    tax,
		NetAmount:    net,
		TotalAmount:  net.Add(tax),
		BusinessDate: from,
		IsStayItem:   true,
		Meta:         meta,
	}
}

func (s *folioService) segmentBounds(item *domain.FolioItem, res *domain.Reservation) (time.Time, time.Time) {
	from, to := res.CheckInDate, res.CheckOutDate
	if raw, ok := item.Meta["from"]; ok {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			from = parsed
		}
	}
	if raw, ok := item.Meta["to"]; ok {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			to = parsed
		}
	}
	return from, to
}

func (s *folioService) segmentRoomID(item *domain.FolioItem, fallback *domain.Room) *int32 {
	if raw, ok := item.Meta["room_id"]; ok {
		var id int32
		if _, err := fmt.Sscanf(raw, "%d", &id); err == nil {
			return &id
		}
	}
	if fallback != nil {
		return &fallback.ID
	}
	return nil
}

func (s *folioService) recomputeTotals(ctx context.Context, r repository.Registry, folio *domain.Folio) error {
	items, err := r.Folios.ListItems(ctx, folio.ID)
	if err != nil {
		return err
	}
	payments, err := r.Folios.ListPayments(ctx, folio.ID)
	if err != nil {
		return err
	}

	charges := decimal.Zero
	for _, item := range items {
		charges = charges.Add(item.TotalAmount)
	}
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == domain.PaymentStatusPosted {
			paid = paid.Add(p.Amount)
		}
	}

	folio.ChargesTotal = charges
	folio.PaymentsTotal = paid
	folio.Balance = charges.Sub(paid)
	return r.Folios.Update(ctx, folio)
}

func (s *folioService) currentBusinessDate(ctx context.Context, r repository.Registry, hotelID int32) (time.Time, error) {
	hotel, err := r.Hotels.GetByID(ctx, hotelID)
	if err != nil {
		return time.Time{}, err
	}
	return s.businessDay.CurrentBusinessDate(ctx, hotel)
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/deal-service/internal/api/dto"
	"github.com/spec-kit/deal-service/internal/auth"
	"github.com/spec-kit/deal-service/internal/domain"
	"github.com/spec-kit/deal-service/internal/store"
	apperrors "github.com/spec-kit/deal-service/pkg/util"
)

// DealsHandler manages deal lifecycle endpoints.
type DealsHandler struct {
	store *store.DealStore
}

// NewDealsHandler constructs handler.
func NewDealsHandler(dealStore *store.DealStore) *DealsHandler {
	return &DealsHandler{store: dealStore}
}

// CreateDeal POST /deals.
func (h *DealsHandler) CreateDeal(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateDealRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Customer.LastName) == "" && strings.TrimSpace(req.Customer.FirstName) == "" {
		return apperrors.NewValidationError("customer name required", nil)
	}
	if strings.TrimSpace(req.Motorcycle.Brand) == "" || strings.TrimSpace(req.Motorcycle.Model) == "" {
		return apperrors.NewValidationError("motorcycle brand and model required", nil)
	}
	if req.Payment.TotalPrice <= 0 {
		return apperrors.NewValidationError("total_price must be positive", nil)
	}

	deal := h.store.CreateDeal(store.CreateDealInput{
		Customer:     customerFromPayload(req.Customer),
		Motorcycle:   motorcycleFromPayload(req.Motorcycle),
		Payment:      paymentFromPayload(req.Payment),
		AssignedTo:   req.AssignedTo,
		TestRideDate: req.TestRideDate,
	}, principal.Actor())
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dealSummary(deal)})
}

// ListDeals GET /deals.
func (h *DealsHandler) ListDeals(c *fiber.Ctx) error {
	deals := h.store.List()
	if phase := c.Query("phase"); phase != "" {
		filtered := make([]domain.Deal, 0, len(deals))
		for _, deal := range deals {
			if deal.Phase == domain.Phase(phase) {
				filtered = append(filtered, deal)
			}
		}
		deals = filtered
	}
	items := make([]dto.DealSummary, 0, len(deals))
	for _, deal := range deals {
		items = append(items, dealSummary(deal))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetDeal GET /deals/:id.
func (h *DealsHandler) GetDeal(c *fiber.Ctx) error {
	deal, ok := h.store.Get(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("deal", fiber.Map{"deal_id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": dealDetail(deal)})
}

// ChangePhase POST /deals/:id/phase.
func (h *DealsHandler) ChangePhase(c *fiber.Ctx) error {
	principal, deal, err := h.resolve(c)
	if err != nil {
		return err
	}
	var req dto.ChangePhaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidPhase(req.Phase) {
		return apperrors.NewValidationError("unknown phase", fiber.Map{"phase": req.Phase})
	}
	if req.Substatus != "" && !domain.ValidSubstatus(req.Phase, req.Substatus) {
		return apperrors.NewValidationError("substatus does not belong to phase", fiber.Map{
			"phase":     req.Phase,
			"substatus": req.Substatus,
		})
	}

	h.store.ChangePhase(deal.ID, req.Phase, req.Substatus, principal.Actor())
	return h.respondWithDeal(c, deal.ID)
}

// ChangeSubstatus POST /deals/:id/substatus. The substatus is validated
// against the deal's current phase here at the boundary; the store itself
// records whatever is submitted.
func (h *DealsHandler) ChangeSubstatus(c *fiber.Ctx) error {
	principal, deal, err := h.resolve(c)
	if err != nil {
		return err
	}
	var req dto.ChangeSubstatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidSubstatus(deal.Phase, req.Substatus) {
		return apperrors.NewValidationError("substatus does not belong to current phase", fiber.Map{
			"phase":     deal.Phase,
			"substatus": req.Substatus,
		})
	}

	h.store.ChangeSubstatus(deal.ID, req.Substatus, principal.Actor())
	return h.respondWithDeal(c, deal.ID)
}

// AddActivity POST /deals/:id/activities.
func (h *DealsHandler) AddActivity(c *fiber.Ctx) error {
	principal, deal, err := h.resolve(c)
	if err != nil {
		return err
	}
	var req dto.AddActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("description required", nil)
	}

	h.store.AddActivity(deal.ID, store.ActivityInput{
		Type:        req.Type,
		Description: req.Description,
		Metadata:    req.Metadata,
	}, principal.Actor())
	return h.respondWithDeal(c, deal.ID)
}

// MarkDepositPaid POST /deals/:id/payments/deposit.
func (h *DealsHandler) MarkDepositPaid(c *fiber.Ctx) error {
	principal, deal, err := h.resolve(c)
	if err != nil {
		return err
	}
	h.store.MarkDepositPaid(deal.ID, principal.Actor())
	return h.respondWithDeal(c, deal.ID)
}

// MarkFullyPaid POST /deals/:id/payments/full.
func (h *DealsHandler) MarkFullyPaid(c *fiber.Ctx) error {
	principal, deal, err := h.resolve(c)
	if err != nil {
		return err
	}
	h.store.MarkFullyPaid(deal.ID, principal.Actor())
	return h.respondWithDeal(c, deal.ID)
}

// SetDeliveryDate POST /deals/:id/delivery-date.
func (h *DealsHandler) SetDeliveryDate(c *fiber.Ctx) error {
	principal, deal, err := h.resolve(c)
	if err != nil {
		return err
	}
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil || req.Date.IsZero() {
		return apperrors.NewValidationError("date required", nil)
	}
	h.store.SetDeliveryDate(deal.ID, req.Date, principal.Actor())
	return h.respondWithDeal(c, deal.ID)
}

// ScheduleTestRide POST /deals/:id/test-ride.
func (h *DealsHandler) ScheduleTestRide(c *fiber.Ctx) error {
	principal, deal, err := h.resolve(c)
	if err != nil {
		return err
	}
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil || req.Date.IsZero() {
		return apperrors.NewValidationError("date required", nil)
	}
	h.store.ScheduleTestRide(deal.ID, req.Date, principal.Actor())
	return h.respondWithDeal(c, deal.ID)
}

func (h *DealsHandler) resolve(c *fiber.Ctx) (*auth.Principal, domain.Deal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, domain.Deal{}, apperrors.NewUnauthorized("authentication required")
	}
	deal, ok := h.store.Get(c.Params("id"))
	if !ok {
		return nil, domain.Deal{}, apperrors.NewNotFound("deal", fiber.Map{"deal_id": c.Params("id")})
	}
	return principal, deal, nil
}

func (h *DealsHandler) respondWithDeal(c *fiber.Ctx, dealID string) error {
	deal, ok := h.store.Get(dealID)
	if !ok {
		return apperrors.NewNotFound("deal", fiber.Map{"deal_id": dealID})
	}
	return c.JSON(fiber.Map{"data": dealDetail(deal)})
}

func customerFromPayload(p dto.CustomerPayload) domain.Customer {
	return domain.Customer{
		ID:               p.ID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		WhatsAppOptIn:    p.WhatsAppOptIn,
		PreferredChannel: p.PreferredChannel,
	}
}

func motorcycleFromPayload(p dto.MotorcyclePayload) domain.Motorcycle {
	return domain.Motorcycle{
		ID:            p.ID,
		Brand:         p.Brand,
		Model:         p.Model,
		Year:          p.Year,
		Color:         p.Color,
		VIN:           p.VIN,
		StockLocation: p.StockLocation,
		IsNewUnit:     p.IsNewUnit,
	}
}

func paymentFromPayload(p dto.PaymentPayload) domain.Payment {
	return domain.Payment{
		TotalPrice:         p.TotalPrice,
		DepositAmount:      p.DepositAmount,
		DepositPaid:        p.DepositPaid,
		DepositPaidAt:      p.DepositPaidAt,
		RemainingAmount:    p.RemainingAmount,
		FinancingRequested: p.FinancingRequested,
		FinancingApproved:  p.FinancingApproved,
		FullyPaid:          p.FullyPaid,
		FullyPaidAt:        p.FullyPaidAt,
	}
}

func customerPayload(c domain.Customer) dto.CustomerPayload {
	return dto.CustomerPayload{
		ID:               c.ID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		Phone:            c.Phone,
		WhatsAppOptIn:    c.WhatsAppOptIn,
		PreferredChannel: c.PreferredChannel,
	}
}

func motorcyclePayload(m domain.Motorcycle) dto.MotorcyclePayload {
	return dto.MotorcyclePayload{
		ID:            m.ID,
		Brand:         m.Brand,
		Model:         m.Model,
		Year:          m.Year,
		Color:         m.Color,
		VIN:           m.VIN,
		StockLocation: m.StockLocation,
		IsNewUnit:     m.IsNewUnit,
	}
}

func paymentPayload(p domain.Payment) dto.PaymentPayload {
	return dto.PaymentPayload{
		TotalPrice:         p.TotalPrice,
		DepositAmount:      p.DepositAmount,
		DepositPaid:        p.DepositPaid,
		DepositPaidAt:      p.DepositPaidAt,
		RemainingAmount:    p.RemainingAmount,
		FinancingRequested: p.FinancingRequested,
		FinancingApproved:  p.FinancingApproved,
		FullyPaid:          p.FullyPaid,
		FullyPaidAt:        p.FullyPaidAt,
	}
}

func dealSummary(deal domain.Deal) dto.DealSummary {
	return dto.DealSummary{
		ID:             deal.ID,
		DealNumber:     deal.DealNumber,
		Customer:       customerPayload(deal.Customer),
		Motorcycle:     motorcyclePayload(deal.Motorcycle),
		Phase:          deal.Phase,
		Substatus:      deal.Substatus,
		Payment:        paymentPayload(deal.Payment),
		TestRideDate:   deal.TestRideDate,
		DeliveryDate:   deal.DeliveryDate,
		AssignedTo:     deal.AssignedTo,
		CreatedAt:      deal.CreatedAt,
		UpdatedAt:      deal.UpdatedAt,
		LastActivityAt: deal.LastActivityAt,
	}
}

func dealDetail(deal domain.Deal) dto.DealDetailResponse {
	activities := make([]dto.ActivityResponse, 0, len(deal.Activities))
	for _, entry := range deal.Activities {
		activities = append(activities, dto.ActivityResponse{
			ID:          entry.ID,
			DealID:      entry.DealID,
			Type:        entry.Type,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
			CreatedBy:   entry.CreatedBy,
			Metadata:    entry.Metadata,
		})
	}
	return dto.DealDetailResponse{
		DealSummary: dealSummary(deal),
		Activities:  activities,
	}
}

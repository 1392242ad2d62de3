package http

import (
	"errors"
	"net/http"
	"time"

	"orderpolicy/internal/core/application/usecases/commands"
	"orderpolicy/internal/core/application/usecases/queries"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the policy engine over HTTP.
// It coordinates between HTTP handlers and application use cases.
//
// The acting party is taken from the request body verbatim; resolving it
// from an authenticated principal is the job of the gateway in front of
// this service.
type Server struct {
	// Command handlers
	requestModificationHandler commands.RequestModificationCommandHandler
	approveModificationHandler commands.ApproveModificationCommandHandler
	rejectModificationHandler  commands.RejectModificationCommandHandler
	cancelOrderHandler         commands.CancelOrderCommandHandler
	requestRefundHandler       commands.RequestRefundCommandHandler

	// Query handlers
	getModificationOptionsHandler queries.GetModificationOptionsQueryHandler
	getCancellationPolicyHandler  queries.GetCancellationPolicyQueryHandler
	getOrderRefundsHandler        queries.GetOrderRefundsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	requestModificationHandler commands.RequestModificationCommandHandler,
	approveModificationHandler commands.ApproveModificationCommandHandler,
	rejectModificationHandler commands.RejectModificationCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	requestRefundHandler commands.RequestRefundCommandHandler,
	getModificationOptionsHandler queries.GetModificationOptionsQueryHandler,
	getCancellationPolicyHandler queries.GetCancellationPolicyQueryHandler,
	getOrderRefundsHandler queries.GetOrderRefundsQueryHandler,
) *Server {
	return &Server{
		requestModificationHandler:    requestModificationHandler,
		approveModificationHandler:    approveModificationHandler,
		rejectModificationHandler:     rejectModificationHandler,
		cancelOrderHandler:            cancelOrderHandler,
		requestRefundHandler:          requestRefundHandler,
		getModificationOptionsHandler: getModificationOptionsHandler,
		getCancellationPolicyHandler:  getCancellationPolicyHandler,
		getOrderRefundsHandler:        getOrderRefundsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders/:id/modifications", s.RequestModification)
	api.GET("/orders/:id/modification-options", s.GetModificationOptions)
	api.POST("/modifications/:id/approve", s.ApproveModification)
	api.POST("/modifications/:id/reject", s.RejectModification)

	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/cancellation-policy", s.GetCancellationPolicy)

	api.POST("/orders/:id/refunds", s.RequestRefund)
	api.GET("/orders/:id/refunds", s.GetOrderRefunds)
}

// Error is the envelope for all non-2xx responses.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ActorInput identifies the acting party in mutating requests.
type ActorInput struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// ChangeInput is one requested change in a modification request. Type
// selects which of the remaining fields are read.
type ChangeInput struct {
	Type string `json:"type"`

	ItemID    string  `json:"item_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`

	Street      string  `json:"street,omitempty"`
	City        string  `json:"city,omitempty"`
	Zone        string  `json:"zone,omitempty"`
	DeliveryFee float64 `json:"delivery_fee,omitempty"`

	Instructions string     `json:"instructions,omitempty"`
	NewTime      *time.Time `json:"new_time,omitempty"`
}

// RequestModificationInput is the body of POST /orders/:id/modifications.
type RequestModificationInput struct {
	Actor   ActorInput    `json:"actor"`
	Changes []ChangeInput `json:"changes"`
}

// ReviewModificationInput is the body of the approve and reject endpoints.
type ReviewModificationInput struct {
	Actor ActorInput `json:"actor"`
}

// CancelOrderInput is the body of POST /orders/:id/cancel.
type CancelOrderInput struct {
	Actor  ActorInput `json:"actor"`
	Reason string     `json:"reason"`
}

// RequestRefundInput is the body of POST /orders/:id/refunds.
type RequestRefundInput struct {
	Actor  ActorInput `json:"actor"`
	Amount float64    `json:"amount"`
	Type   string     `json:"type"`
	Reason string     `json:"reason"`
}

// CreatedResponse returns the identifier assigned to a newly created record.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ModificationOptionsResponse is the body of GET /orders/:id/modification-options.
type ModificationOptionsResponse struct {
	CanModify              bool     `json:"can_modify"`
	Reason                 string   `json:"reason,omitempty"`
	AllowedTypes           []string `json:"allowed_types"`
	WindowRemainingSeconds *int     `json:"window_remaining_seconds,omitempty"`
	RequiresApproval       bool     `json:"requires_approval"`
	HasPendingModification bool     `json:"has_pending_modification"`
}

// CancellationPolicyResponse is the body of GET /orders/:id/cancellation-policy.
type CancellationPolicyResponse struct {
	CanCancel        bool     `json:"can_cancel"`
	Reason           string   `json:"reason,omitempty"`
	RefundPercentage int      `json:"refund_percentage"`
	PenaltyAmount    string   `json:"penalty_amount"`
	RefundAmount     string   `json:"refund_amount"`
	Rules            []string `json:"rules"`
}

// RefundResponse is one element of the GET /orders/:id/refunds listing.
type RefundResponse struct {
	ID             string     `json:"id"`
	Amount         string     `json:"amount"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason"`
	TransactionID  string     `json:"transaction_id,omitempty"`
	FailureMessage string     `json:"failure_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

// RequestModification handles POST /api/v1/orders/:id/modifications.
func (s *Server) RequestModification(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var input RequestModificationInput
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actor, err := parseActor(input.Actor)
	if err != nil {
		return writeError(ctx, err)
	}

	changes, err := parseChanges(input.Changes)
	if err != nil {
		return writeError(ctx, err)
	}

	modificationID := kernel.NewUUID()
	cmd, err := commands.NewRequestModificationCommand(modificationID, orderID, actor, changes)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.requestModificationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: modificationID.String()})
}

// ApproveModification handles POST /api/v1/modifications/:id/approve.
func (s *Server) ApproveModification(ctx echo.Context) error {
	cmd, err := s.bindReview(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.approveModificationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectModification handles POST /api/v1/modifications/:id/reject.
func (s *Server) RejectModification(ctx echo.Context) error {
	cmd, err := s.bindReview(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.rejectModificationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) bindReview(ctx echo.Context) (commands.ReviewModificationCommand, error) {
	modificationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return commands.ReviewModificationCommand{},
			errs.NewValueIsInvalidError("modification id")
	}

	var input ReviewModificationInput
	if err := ctx.Bind(&input); err != nil {
		return commands.ReviewModificationCommand{},
			errs.NewValueIsInvalidError("request body")
	}

	actor, err := parseActor(input.Actor)
	if err != nil {
		return commands.ReviewModificationCommand{}, err
	}

	return commands.NewReviewModificationCommand(modificationID, actor)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var input CancelOrderInput
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actor, err := parseActor(input.Actor)
	if err != nil {
		return writeError(ctx, err)
	}

	cancellationID := kernel.NewUUID()
	cmd, err := commands.NewCancelOrderCommand(cancellationID, orderID, actor, input.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: cancellationID.String()})
}

// RequestRefund handles POST /api/v1/orders/:id/refunds.
func (s *Server) RequestRefund(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var input RequestRefundInput
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actor, err := parseActor(input.Actor)
	if err != nil {
		return writeError(ctx, err)
	}

	refundType, err := parseRefundType(input.Type)
	if err != nil {
		return writeError(ctx, err)
	}

	refundID := kernel.NewUUID()
	cmd, err := commands.NewRequestRefundCommand(
		refundID, orderID, kernel.MoneyFromFloat(input.Amount), refundType, input.Reason, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.requestRefundHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: refundID.String()})
}

// GetModificationOptions handles GET /api/v1/orders/:id/modification-options.
func (s *Server) GetModificationOptions(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetModificationOptionsQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	options, err := s.getModificationOptionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	allowed := make([]string, len(options.AllowedTypes))
	for i, t := range options.AllowedTypes {
		allowed[i] = t.String()
	}

	response := ModificationOptionsResponse{
		CanModify:              options.CanModify,
		Reason:                 options.Reason,
		AllowedTypes:           allowed,
		RequiresApproval:       options.RequiresApproval,
		HasPendingModification: options.HasPendingModification,
	}
	if options.WindowRemaining != nil {
		seconds := int(options.WindowRemaining.Seconds())
		response.WindowRemainingSeconds = &seconds
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCancellationPolicy handles GET /api/v1/orders/:id/cancellation-policy.
func (s *Server) GetCancellationPolicy(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetCancellationPolicyQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	policy, err := s.getCancellationPolicyHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CancellationPolicyResponse{
		CanCancel:        policy.CanCancel,
		Reason:           policy.Reason,
		RefundPercentage: policy.RefundPercentage,
		PenaltyAmount:    policy.PenaltyAmount.String(),
		RefundAmount:     policy.RefundAmount.String(),
		Rules:            policy.Rules,
	})
}

// GetOrderRefunds handles GET /api/v1/orders/:id/refunds.
func (s *Server) GetOrderRefunds(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderRefundsQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	refunds, err := s.getOrderRefundsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]RefundResponse, len(refunds))
	for i, r := range refunds {
		response[i] = RefundResponse{
			ID:             r.ID.String(),
			Amount:         r.Amount.String(),
			Type:           r.Type,
			Status:         r.Status,
			Reason:         r.Reason,
			TransactionID:  r.TransactionID,
			FailureMessage: r.FailureMessage,
			CreatedAt:      r.CreatedAt,
			ProcessedAt:    r.ProcessedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func parseActor(input ActorInput) (kernel.Actor, error) {
	id, err := kernel.UUIDFromString(input.ID)
	if err != nil {
		return kernel.Actor{}, errs.NewValueIsInvalidError("actor id")
	}

	role, err := parseRole(input.Role)
	if err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(id, role)
}

func parseRole(s string) (kernel.Role, error) {
	switch s {
	case "customer":
		return kernel.RoleCustomer, nil
	case "merchant":
		return kernel.RoleMerchant, nil
	case "driver":
		return kernel.RoleDriver, nil
	case "support":
		return kernel.RoleSupport, nil
	case "admin":
		return kernel.RoleAdmin, nil
	default:
		return kernel.RoleUnknown, errs.NewValueIsInvalidError("actor role")
	}
}

func parseRefundType(s string) (refund.Type, error) {
	switch s {
	case "full":
		return refund.TypeFull, nil
	case "partial":
		return refund.TypePartial, nil
	case "item":
		return refund.TypeItem, nil
	default:
		return 0, errs.NewValueIsInvalidError("refund type")
	}
}

func parseChanges(inputs []ChangeInput) ([]modification.Change, error) {
	changes := make([]modification.Change, 0, len(inputs))
	for _, input := range inputs {
		change, err := parseChange(input)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func parseChange(input ChangeInput) (modification.Change, error) {
	changeType, err := modification.ChangeTypeFromString(input.Type)
	if err != nil {
		return nil, err
	}

	switch changeType {
	case modification.ChangeTypeAddItem:
		itemID, err := kernel.UUIDFromString(input.ItemID)
		if err != nil {
			return nil, errs.NewValueIsInvalidError("item id")
		}
		return modification.AddItem{
			ItemID:    itemID,
			Name:      input.Name,
			UnitPrice: kernel.MoneyFromFloat(input.UnitPrice),
			Quantity:  input.Quantity,
		}, nil

	case modification.ChangeTypeRemoveItem:
		itemID, err := kernel.UUIDFromString(input.ItemID)
		if err != nil {
			return nil, errs.NewValueIsInvalidError("item id")
		}
		return modification.RemoveItem{ItemID: itemID}, nil

	case modification.ChangeTypeUpdateQuantity:
		itemID, err := kernel.UUIDFromString(input.ItemID)
		if err != nil {
			return nil, errs.NewValueIsInvalidError("item id")
		}
		return modification.UpdateQuantity{ItemID: itemID, Quantity: input.Quantity}, nil

	case modification.ChangeTypeChangeAddress:
		address, err := kernel.NewAddress(input.Street, input.City, input.Zone)
		if err != nil {
			return nil, err
		}
		return modification.ChangeAddress{
			Address:        address,
			NewDeliveryFee: kernel.MoneyFromFloat(input.DeliveryFee),
		}, nil

	case modification.ChangeTypeUpdateInstructions:
		return modification.UpdateInstructions{Instructions: input.Instructions}, nil

	case modification.ChangeTypeChangeTime:
		if input.NewTime == nil {
			return nil, errs.NewValueIsRequiredError("new delivery time")
		}
		return modification.ChangeTime{NewTime: *input.NewTime}, nil

	default:
		return nil, errs.NewValueIsInvalidError("change type")
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrAuthorization):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrStateConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrExternalService):
		code = http.StatusServiceUnavailable
	}

	return ctx.JSON(code, Error{
		Code:    code,
		Message: err.Error(),
	})
}

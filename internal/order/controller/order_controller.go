package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, userID int, req dto.CreateOrderRequest, idempotencyKey string) (*dto.OrderDTO, error)
}

type CancelOrderUseCase interface {
	CancelOrder(ctx context.Context, orderID uint, caller auth.Identity) (*dto.OrderDTO, error)
}

type OrderQueriesUseCase interface {
	GetOrder(ctx context.Context, orderID uint, caller auth.Identity, resolveProducts bool) (*dto.OrderDTO, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter, page, pageSize int) (*dto.OrderListResponse, error)
}

type UpdateOrderStatusUseCase interface {
	UpdateStatus(ctx context.Context, orderID uint, status string) (*dto.OrderDTO, error)
}

type OrderController struct {
	place        PlaceOrderUseCase
	cancel       CancelOrderUseCase
	queries      OrderQueriesUseCase
	updateStatus UpdateOrderStatusUseCase
	logger       *zap.Logger
}

func NewOrderController(
	place PlaceOrderUseCase,
	cancel CancelOrderUseCase,
	queries OrderQueriesUseCase,
	updateStatus UpdateOrderStatusUseCase,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		place:        place,
		cancel:       cancel,
		queries:      queries,
		updateStatus: updateStatus,
		logger:       logger,
	}
}

func (c *OrderController) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		c.writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHENTICATED", "no token provided, access denied")
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	order, err := c.place.PlaceOrder(r.Context(), caller.UserID, req, idempotencyKey)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, order)
}

func (c *OrderController) HandleListMyOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()

	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		c.writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHENTICATED", "no token provided, access denied")
		return
	}

	page, pageSize, err := parsePageQuery(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	filter := dto.OrderFilter{
		UserID: &caller.UserID,
		Status: r.URL.Query().Get("status"),
	}

	resp, err := c.queries.ListOrders(r.Context(), filter, page, pageSize)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) HandleListAllOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()

	page, pageSize, err := parsePageQuery(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	filter := dto.OrderFilter{
		Status: r.URL.Query().Get("status"),
	}

	resp, err := c.queries.ListOrders(r.Context(), filter, page, pageSize)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()

	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		c.writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHENTICATED", "no token provided, access denied")
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	resolveProducts := r.URL.Query().Get("include") == "products"

	order, err := c.queries.GetOrder(r.Context(), orderID, caller, resolveProducts)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, order)
}

func (c *OrderController) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		c.writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHENTICATED", "no token provided, access denied")
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	order, err := c.cancel.CancelOrder(r.Context(), orderID, caller)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, order)
}

func (c *OrderController) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := parseOrderID(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.updateStatus.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, order)
}

func parseOrderID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || orderID == 0 {
		return 0, apperrors.NewValidationError("invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
	}
	return uint(orderID), nil
}

func parsePageQuery(r *http.Request) (page, pageSize int, err error) {
	var details []apperrors.ValidationDetail
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "page",
				Message: "page must be a positive integer",
			})
		}
	}

	if raw := q.Get("limit"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "limit",
				Message: "limit must be a positive integer",
			})
		}
	}

	if len(details) > 0 {
		return 0, 0, apperrors.NewValidationError("validation failed", details...)
	}
	return page, pageSize, nil
}

func (c *OrderController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if nf, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", nf.Message)
		return
	}

	if fe, ok := apperrors.IsForbiddenError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", fe.Message)
		return
	}

	if is, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", is.Error())
		return
	}

	if ie, ok := apperrors.IsInvalidStateError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INVALID_STATE", ie.Message)
		return
	}

	if de, ok := apperrors.IsDeadlockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", de.Message)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type errorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *OrderController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string) {
	c.writeJSON(w, statusCode, errorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

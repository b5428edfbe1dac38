package placeorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/commerce-labs/placement/internal/service/services/placement"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the part of the service layer this handler needs.
type Service interface {
	PlaceOrder(ctx context.Context, cmd placement.PlaceOrderCommand) (uuid.UUID, error)
}

// lineInPlaceOrderRequest represents a line in a place order request.
type lineInPlaceOrderRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity"  validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// placeOrderRequest represents a place order request.
type placeOrderRequest struct {
	CustomerID uuid.UUID                 `json:"customerId" validate:"required"`
	Lines      []lineInPlaceOrderRequest `json:"lines"      validate:"required,min=1,dive"`
}

// Validate validates the place order request.
func (r *placeOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toCommand converts placeOrderRequest to a placement command.
func (r *placeOrderRequest) toCommand() placement.PlaceOrderCommand {
	lines := make([]placement.CommandLine, len(r.Lines))
	for i, line := range r.Lines {
		lines[i] = placement.CommandLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	return placement.PlaceOrderCommand{
		CustomerID: r.CustomerID,
		Lines:      lines,
	}
}

// placeOrderResponse represents a place order response.
type placeOrderResponse struct {
	OrderID      string `json:"orderId,omitempty"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// PlaceOrder handles the place order request.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service Service) {
	req := placeOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		slog.Error("Error validating request body for place order", "error", err)

		return
	}

	orderID, err := service.PlaceOrder(r.Context(), req.toCommand())
	if err != nil {
		writeFailure(w, statusFor(err), err.Error())
		slog.Error("Error placing order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(placeOrderResponse{
		OrderID: orderID.String(),
		Success: true,
	}); err != nil {
		slog.Error("Error sending response for place order", "error", err)
	}
}

// statusFor maps validation failures to client errors and everything else
// to a generic server error; callers never see a raw low-level fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, placement.ErrInvalidCustomer),
		errors.Is(err, placement.ErrUnknownProduct),
		errors.Is(err, placement.ErrEmptyOrder):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(placeOrderResponse{
		Success:      false,
		ErrorMessage: message,
	}); err != nil {
		slog.Error("Error sending failure response for place order", "error", err)
	}
}

// internal/handlers/customer/customer.go
package customer

import (
	"net/http"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// CreateCustomer handles POST /api/customers.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req customer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "name and email are required", err)
		return
	}

	result, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrConflict):
			response.Conflict(c, "email already exists")
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid customer", err)
		default:
			response.Internal(c)
		}
		return
	}

	response.Success(c, http.StatusCreated, "customer created successfully", gin.H{
		"customer": result,
	})
}

// ListDetails handles GET /api/customers/details.
func (h *CustomerHandler) ListDetails(c *gin.Context) {
	customers, err := h.customerService.ListWithOrders(c.Request.Context())
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "customers retrieved", customers)
}

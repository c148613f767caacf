package servicerequest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixmysite/portal/internal/application/servicerequest/dto"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/utils"
)

type RequestService interface {
	CreateServiceRequest(ctx context.Context, userID uint, req dto.CreateServiceRequestRequest) (*dto.CreateServiceRequestResponse, error)
	ListServiceRequests(ctx context.Context, userID uint) ([]dto.ServiceRequestDTO, error)
	ListActiveServiceRequests(ctx context.Context, userID uint) ([]dto.ActiveServiceRequestDTO, error)
}

type Handler struct {
	requests RequestService
	logger   logger.Interface
}

func NewHandler(requests RequestService, log logger.Interface) *Handler {
	return &Handler{requests: requests, logger: log}
}

// Create handles POST /api/service-requests
//
//	@Summary		Submit a service request
//	@Description	Creates the request and its ticket, then opens the support channel in the background
//	@Tags			service-requests
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			request	body		dto.CreateServiceRequestRequest	true	"Request details"
//	@Success		201		{object}	utils.APIResponse{data=dto.CreateServiceRequestResponse}
//	@Failure		400		{object}	utils.APIResponse
//	@Router			/api/service-requests [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required.")
		return
	}

	var req dto.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid service request body", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.requests.CreateServiceRequest(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Service request submitted successfully.")
}

// List handles GET /api/service-requests
//
//	@Summary	List the caller's service requests
//	@Tags		service-requests
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=[]dto.ServiceRequestDTO}
//	@Router		/api/service-requests [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required.")
		return
	}

	list, err := h.requests.ListServiceRequests(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", list)
}

// ListActive handles GET /api/service-requests/active
//
//	@Summary	List requests with a live ticket
//	@Tags		service-requests
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=[]dto.ActiveServiceRequestDTO}
//	@Router		/api/service-requests/active [get]
func (h *Handler) ListActive(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required.")
		return
	}

	list, err := h.requests.ListActiveServiceRequests(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", list)
}

package credential

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixmysite/portal/internal/application/credential/dto"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/utils"
)

type CredentialService interface {
	StoreCredential(ctx context.Context, userID uint, req dto.CreateCredentialRequest) (*dto.CredentialDTO, error)
	ListCredentials(ctx context.Context, userID uint) ([]dto.CredentialDTO, error)
	RevealCredential(ctx context.Context, userID, credentialID uint, password string) (*dto.RevealCredentialResponse, error)
	DeleteCredential(ctx context.Context, userID, credentialID uint) error
}

type Handler struct {
	credentials CredentialService
	logger      logger.Interface
}

func NewHandler(credentials CredentialService, log logger.Interface) *Handler {
	return &Handler{credentials: credentials, logger: log}
}

// Create handles POST /api/credentials
//
//	@Summary		Store a credential
//	@Description	Encrypts and stores a secret for one of the caller's service requests
//	@Tags			credentials
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			request	body		dto.CreateCredentialRequest	true	"Credential"
//	@Success		201		{object}	utils.APIResponse{data=dto.CredentialDTO}
//	@Failure		400		{object}	utils.APIResponse
//	@Failure		404		{object}	utils.APIResponse
//	@Router			/api/credentials [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.credentials.StoreCredential(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Credential stored securely.")
}

// List handles GET /api/credentials
//
//	@Summary	List stored credentials
//	@Tags		credentials
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=[]dto.CredentialDTO}
//	@Router		/api/credentials [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := h.credentials.ListCredentials(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", list)
}

// Reveal handles POST /api/credentials/:id/reveal
//
//	@Summary		Reveal a credential
//	@Description	Decrypts a stored secret after re-checking the account password
//	@Tags			credentials
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int								true	"Credential ID"
//	@Param			request	body		dto.RevealCredentialRequest	true	"Account password"
//	@Success		200		{object}	utils.APIResponse{data=dto.RevealCredentialResponse}
//	@Failure		401		{object}	utils.APIResponse
//	@Failure		404		{object}	utils.APIResponse
//	@Router			/api/credentials/{id}/reveal [post]
func (h *Handler) Reveal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	credentialID, err := utils.ParseUintParam(c, "id", "credential")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.RevealCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.credentials.RevealCredential(c.Request.Context(), userID, credentialID, req.Password)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Delete handles DELETE /api/credentials/:id
//
//	@Summary	Delete a credential
//	@Tags		credentials
//	@Security	Bearer
//	@Param		id	path	int	true	"Credential ID"
//	@Success	204
//	@Failure	404	{object}	utils.APIResponse
//	@Router		/api/credentials/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	credentialID, err := utils.ParseUintParam(c, "id", "credential")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.credentials.DeleteCredential(c.Request.Context(), userID, credentialID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required.")
	}
	return userID, ok
}

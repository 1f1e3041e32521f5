package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loadsight/pallet-analysis/internal/domain/dto"
	"github.com/loadsight/pallet-analysis/internal/i18n"
	"github.com/loadsight/pallet-analysis/internal/service"
)

// TokenHandler exchanges API keys for bearer tokens.
type TokenHandler struct {
	tokens service.TokenService
}

// NewTokenHandler creates a new TokenHandler instance.
func NewTokenHandler(tokens service.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// IssueToken handles POST /api/token requests.
//
// @Summary      Issue a bearer token
// @Description  Exchanges a valid API key for a short-lived bearer token to use on protected routes.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.TokenRequest true "API key"
// @Success      200 {object} dto.SuccessResponse "Issued token"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      401 {object} dto.ErrorResponse "Invalid API key"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/token [post]
func (h *TokenHandler) IssueToken(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(req.APIKey)
	if err != nil {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyInvalidAPIKey, err)
		return
	}

	builder.SuccessOK(dto.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

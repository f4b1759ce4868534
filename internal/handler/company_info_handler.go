package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

type companyInfoService interface {
	Public(ctx context.Context) (map[string]string, error)
	List(ctx context.Context) ([]dto.CompanyInfoItem, error)
	Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.CompanyInfoItem, error)
	BulkUpdate(ctx context.Context, req dto.BulkUpdateCompanyInfoRequest, actor *models.JWTClaims) ([]dto.CompanyInfoItem, error)
}

// CompanyInfoHandler exposes the site's company content.
type CompanyInfoHandler struct {
	service companyInfoService
}

// NewCompanyInfoHandler constructs the handler.
func NewCompanyInfoHandler(svc companyInfoService) *CompanyInfoHandler {
	return &CompanyInfoHandler{service: svc}
}

// Public godoc
// @Summary Company info as a key/value map
// @Tags CompanyInfo
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /company-info [get]
func (h *CompanyInfoHandler) Public(c *gin.Context) {
	values, err := h.service.Public(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, values)
}

// List godoc
// @Summary Company info entries with descriptions
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/company-info [get]
func (h *CompanyInfoHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Update godoc
// @Summary Update one company info entry
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param key path string true "Entry key"
// @Param payload body dto.UpdateCompanyInfoRequest true "Value"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/company-info/{key} [put]
func (h *CompanyInfoHandler) Update(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.UpdateCompanyInfoRequest
	if !bindJSON(c, &req, "invalid company info payload") {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("key"), req.Value, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// BulkUpdate godoc
// @Summary Update several company info entries
// @Description Either every entry is saved or none is.
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.BulkUpdateCompanyInfoRequest true "Entries"
// @Success 200 {object} response.Envelope
// @Router /admin/company-info/bulk [put]
func (h *CompanyInfoHandler) BulkUpdate(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.BulkUpdateCompanyInfoRequest
	if !bindJSON(c, &req, "invalid company info payload") {
		return
	}
	items, err := h.service.BulkUpdate(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"holdops/internal/service"
)

// CompanyHandler handles company endpoints.
type CompanyHandler struct {
	reportService service.ReportService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(reportService service.ReportService) *CompanyHandler {
	return &CompanyHandler{reportService: reportService}
}

// List handles GET /api/v1/companies
// @Summary      List companies
// @Description  Lists the operating companies configured for the holding group
// @Tags         companies
// @Produce      json
// @Success      200 {object} APIResponse{data=[]domain.Company,meta=Meta}
// @Failure      401 {object} APIResponse
// @Security     BearerAuth
// @Router       /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	companies := h.reportService.Companies()
	RespondList(c, companies, len(companies))
}

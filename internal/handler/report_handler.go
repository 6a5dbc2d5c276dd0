package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"holdops/internal/domain"
	"holdops/internal/service"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
	exportService service.ExportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, exportService service.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// Flat handles GET /api/v1/reports/:company/:kind
// @Summary      Flat report
// @Description  Fetches an accounting report and flattens it into display rows
// @Tags         reports
// @Produce      json
// @Param        company path string true "Company slug"
// @Param        kind path string true "Report kind"
// @Param        start query string false "Start date (YYYY-MM-DD)"
// @Param        end query string false "End date (YYYY-MM-DD)"
// @Param        accounting_method query string false "accrual or cash"
// @Param        keep_zero query bool false "Keep zero-amount lines"
// @Success      200 {object} APIResponse{data=domain.FlatReport}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      502 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{company}/{kind} [get]
func (h *ReportHandler) Flat(c *gin.Context) {
	req, err := parseReportRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	out, err := h.reportService.Flat(c.Request.Context(), c.Param("company"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// Aging handles GET /api/v1/reports/:company/aging/:side
// @Summary      Aging summary
// @Description  Receivables or payables aging by customer or vendor
// @Tags         reports
// @Produce      json
// @Param        company path string true "Company slug"
// @Param        side path string true "receivables or payables"
// @Param        as_of query string false "As-of date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse{data=domain.AgingReport}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{company}/aging/{side} [get]
func (h *ReportHandler) Aging(c *gin.Context) {
	side, err := domain.ParseAgingSide(c.Param("side"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	out, err := h.reportService.Aging(c.Request.Context(), c.Param("company"), side, c.Query("as_of"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// Monthly handles GET /api/v1/reports/:company/monthly
// @Summary      Monthly profit and loss
// @Description  Income, expenses and net income per month of a year
// @Tags         reports
// @Produce      json
// @Param        company path string true "Company slug"
// @Param        year query int false "Year (default current)"
// @Param        compact query bool false "Drop all-zero months"
// @Success      200 {object} APIResponse{data=domain.MonthlyReport}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{company}/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	year, err := queryYear(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	compact, err := queryBool(c, "compact")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	out, err := h.reportService.Monthly(c.Request.Context(), c.Param("company"), year, compact)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// Consolidated handles GET /api/v1/reports/consolidated/monthly
// @Summary      Consolidated monthly profit and loss
// @Description  Monthly series per company plus their sum
// @Tags         reports
// @Produce      json
// @Param        companies query string false "Comma-separated company slugs (default all)"
// @Param        year query int false "Year (default current)"
// @Param        compact query bool false "Drop all-zero months"
// @Success      200 {object} APIResponse{data=domain.ConsolidatedMonthly}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/consolidated/monthly [get]
func (h *ReportHandler) Consolidated(c *gin.Context) {
	year, err := queryYear(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	compact, err := queryBool(c, "compact")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	out, err := h.reportService.Consolidated(c.Request.Context(), splitCSV(c.Query("companies")), year, compact)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// ExpenseTrend handles GET /api/v1/reports/:company/expense-trend
// @Summary      Expense trend
// @Description  Monthly expenses by top categories
// @Tags         reports
// @Produce      json
// @Param        company path string true "Company slug"
// @Param        year query int false "Year (default current)"
// @Param        top query int false "Number of categories" default(8)
// @Success      200 {object} APIResponse{data=domain.ExpenseTrend}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{company}/expense-trend [get]
func (h *ReportHandler) ExpenseTrend(c *gin.Context) {
	year, err := queryYear(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	top := 0
	if v := c.Query("top"); v != "" {
		top, err = strconv.Atoi(v)
		if err != nil || top < 1 || top > 50 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'top': must be between 1 and 50")
			return
		}
	}

	out, err := h.reportService.ExpenseTrend(c.Request.Context(), c.Param("company"), year, top)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// Export handles POST /api/v1/reports/:company/:kind/export
// @Summary      Export report
// @Description  Encodes a report as CSV or XLSX, uploads it and returns a presigned download URL
// @Tags         reports
// @Produce      json
// @Param        company path string true "Company slug"
// @Param        kind path string true "Report kind"
// @Param        format query string false "csv or xlsx" default(xlsx)
// @Success      201 {object} APIResponse{data=domain.ExportResult}
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{company}/{kind}/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	req, err := parseReportRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	out, err := h.exportService.Export(c.Request.Context(), c.Param("company"), req, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, out)
}

// sheetRequest is the optional body of the sheet export endpoint.
type sheetRequest struct {
	Tab string `json:"tab" binding:"omitempty,max=100"`
}

// Sheet handles POST /api/v1/reports/:company/:kind/sheet
// @Summary      Write report to spreadsheet
// @Description  Replaces a spreadsheet tab with the report rows
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        company path string true "Company slug"
// @Param        kind path string true "Report kind"
// @Param        body body sheetRequest false "Target tab"
// @Success      200 {object} APIResponse{data=domain.SheetWriteResult}
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{company}/{kind}/sheet [post]
func (h *ReportHandler) Sheet(c *gin.Context) {
	req, err := parseReportRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	var body sheetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	out, err := h.exportService.ToSheet(c.Request.Context(), c.Param("company"), req, body.Tab)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// SheetValues handles GET /api/v1/sheets/values
// @Summary      Read spreadsheet values
// @Description  Returns the cell values of an A1 range of the configured spreadsheet
// @Tags         sheets
// @Produce      json
// @Param        range query string true "A1 range, e.g. Budget!A1:D20"
// @Success      200 {object} APIResponse{data=[][]string}
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Security     BearerAuth
// @Router       /sheets/values [get]
func (h *ReportHandler) SheetValues(c *gin.Context) {
	rng := c.Query("range")
	if rng == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "'range' is required")
		return
	}

	values, err := h.exportService.ReadValues(c.Request.Context(), rng)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, values, len(values))
}

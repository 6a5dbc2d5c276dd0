package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"holdops/internal/domain"
)

// parseReportRequest reads the report query parameters shared by the flat,
// export and sheet endpoints.
func parseReportRequest(c *gin.Context) (domain.ReportRequest, error) {
	kind, err := domain.ParseReportKind(c.Param("kind"))
	if err != nil {
		return domain.ReportRequest{}, err
	}
	req := domain.ReportRequest{
		Kind:  kind,
		Start: c.Query("start"),
		End:   c.Query("end"),
		AsOf:  c.Query("as_of"),
	}

	switch m := strings.ToLower(c.Query("accounting_method")); m {
	case "":
	case "accrual":
		req.AccountingMethod = domain.AccountingAccrual
	case "cash":
		req.AccountingMethod = domain.AccountingCash
	default:
		return domain.ReportRequest{}, fmt.Errorf("invalid 'accounting_method': must be accrual or cash")
	}

	if v := c.Query("keep_zero"); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return domain.ReportRequest{}, fmt.Errorf("invalid 'keep_zero': must be a boolean")
		}
		req.KeepZero = &keep
	}
	return req, req.ValidateDates()
}

// queryYear returns the year query parameter, defaulting to the current year.
func queryYear(c *gin.Context) (int, error) {
	v := c.Query("year")
	if v == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid 'year': must be an integer")
	}
	return year, nil
}

func queryBool(c *gin.Context, name string) (bool, error) {
	v := c.Query(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid '%s': must be a boolean", name)
	}
	return b, nil
}

// splitCSV splits a comma-separated query value, dropping blanks.
func splitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

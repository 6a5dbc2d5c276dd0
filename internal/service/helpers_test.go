package service_test

import (
	"holdops/internal/domain"
	"holdops/internal/report"
)

var (
	acme   = domain.Company{Slug: "acme", RealmID: "111", Name: "Acme Ltd"}
	globex = domain.Company{Slug: "globex", RealmID: "222", Name: "Globex"}
)

func testCompanies() []domain.Company {
	return []domain.Company{acme, globex}
}

func moneyColumn(start string) report.Column {
	return report.Column{Type: "Money", Meta: map[string]string{"StartDate": start}}
}

// monthlyDoc returns a profit and loss summarized by month with one column
// per given month start date. income and expenses are parallel to starts.
func monthlyDoc(starts []string, income, expenses, net []string) *report.Document {
	columns := []report.Column{{Type: "Account", Meta: map[string]string{"ColKey": "account"}}}
	for _, s := range starts {
		columns = append(columns, moneyColumn(s))
	}
	return &report.Document{
		Header:  report.ReportHeader{ReportName: "ProfitAndLoss", Currency: "USD"},
		Columns: columns,
		Rows: []report.Node{
			report.NewSection("Income", report.Cells(append([]string{"Total Income"}, income...)...),
				report.NewData(append([]string{"Sales"}, income...)...),
			),
			report.NewSection("Expenses", report.Cells(append([]string{"Total Expenses"}, expenses...)...),
				report.NewData(append([]string{"Rent"}, expenses...)...),
				report.NewData(append([]string{"Unused"}, zeros(len(starts))...)...),
			),
			report.NewSection("", report.Cells(append([]string{"Net Income"}, net...)...)),
		},
	}
}

func zeros(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "0"
	}
	return out
}

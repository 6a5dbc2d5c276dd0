package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdops/internal/report"
)

func accountColumn() report.Column {
	return report.Column{Type: "Account", Meta: map[string]string{"ColKey": "account"}}
}

func moneyColumn(start string) report.Column {
	return report.Column{Type: "Money", Meta: map[string]string{"StartDate": start}}
}

func TestMapColumns(t *testing.T) {
	columns := []report.Column{
		accountColumn(),
		moneyColumn("2024-01-15"),
		moneyColumn("2024-12-01"),
		moneyColumn("2023-12-01"),
		moneyColumn("not a date"),
		{Type: "Money"},
		{Type: "Money", Meta: map[string]string{"ColKey": "total", "StartDate": "2024-01-01"}},
		moneyColumn("2024-03-01T00:00:00Z"),
	}

	months := report.MapColumns(columns, 2024)

	assert.Equal(t, []int{
		report.Unassigned, 0, 11, report.Unassigned, report.Unassigned, report.Unassigned, report.Unassigned, 2,
	}, months)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan 24", report.MonthLabel(2024, time.January))
	assert.Equal(t, "Dec 05", report.MonthLabel(2005, time.December))
}

func TestPivotMonthly_TotalIncomeByMonth(t *testing.T) {
	columns := []report.Column{accountColumn(), moneyColumn("2024-01-15"), moneyColumn("2024-02-15")}
	nodes := []report.Node{
		report.NewSection("Income", report.Cells("Total Income", "1000", "1200")),
	}

	buckets := report.PivotMonthly(nodes, columns, 2024, report.PivotOptions{})

	require.Len(t, buckets, 12)
	assert.Equal(t, 1000.0, buckets[0].Income)
	assert.Equal(t, 1200.0, buckets[1].Income)
	for _, b := range buckets[2:] {
		assert.Equal(t, 0.0, b.Income, b.Month)
	}
}

func TestPivotMonthly_OtherYearExcluded(t *testing.T) {
	columns := []report.Column{accountColumn(), moneyColumn("2023-12-01"), moneyColumn("2024-01-01")}
	nodes := []report.Node{
		report.NewSection("Income", report.Cells("Total Income", "999", "100")),
		report.NewSection("Expenses", report.Cells("Total Expenses", "999", "40")),
	}

	buckets := report.PivotMonthly(nodes, columns, 2024, report.PivotOptions{})

	require.Len(t, buckets, 12)
	assert.Equal(t, report.MonthlyBucket{Month: "Jan 24", Income: 100, Expenses: 40}, buckets[0])
	for _, b := range buckets[1:] {
		assert.True(t, b.IsZero(), b.Month)
	}
}

func TestPivotMonthly_Fixture(t *testing.T) {
	doc := loadFixture(t, "pnl_monthly_2024.json")

	buckets := report.PivotMonthly(doc.Rows, doc.Columns, 2024, report.PivotOptions{})

	require.Len(t, buckets, 12)
	assert.Equal(t, report.MonthlyBucket{Month: "Jan 24", Income: 1000, Expenses: 800, Net: 200}, buckets[0])
	assert.Equal(t, report.MonthlyBucket{Month: "Feb 24", Income: 1200, Expenses: 850, Net: 350}, buckets[1])
	assert.Equal(t, report.MonthlyBucket{Month: "Mar 24", Income: 0, Expenses: 500, Net: -500}, buckets[2])
	assert.Equal(t, report.MonthlyBucket{Month: "Dec 24"}, buckets[11])
}

func TestPivotMonthly_Compact(t *testing.T) {
	doc := loadFixture(t, "pnl_monthly_2024.json")

	buckets := report.PivotMonthly(doc.Rows, doc.Columns, 2024, report.PivotOptions{Compact: true})

	require.Len(t, buckets, 3)
	assert.Equal(t, []string{"Jan 24", "Feb 24", "Mar 24"}, []string{buckets[0].Month, buckets[1].Month, buckets[2].Month})
}

func TestPivotMonthly_AlwaysTwelveBuckets(t *testing.T) {
	doc := loadFixture(t, "pnl_monthly_2024.json")

	for _, year := range []int{2022, 2024, 2025} {
		buckets := report.PivotMonthly(doc.Rows, doc.Columns, year, report.PivotOptions{})
		require.Len(t, buckets, 12)
		assert.Equal(t, report.MonthLabel(year, time.January), buckets[0].Month)
		assert.Equal(t, report.MonthLabel(year, time.December), buckets[11].Month)
	}
	assert.Len(t, report.PivotMonthly(nil, nil, 2024, report.PivotOptions{}), 12)
	assert.Empty(t, report.PivotMonthly(nil, nil, 2024, report.PivotOptions{Compact: true}))
}

func TestPivotMonthly_NestedSummariesAndUnknownLabels(t *testing.T) {
	columns := []report.Column{accountColumn(), moneyColumn("2024-06-01")}
	nodes := []report.Node{
		report.NewSection("", nil,
			report.NewSection("Operating", report.Cells("Total Operating", "12345"),
				report.NewSection("Expenses", report.Cells("Total Expenses", "70")),
			),
			report.NewSection("Cost of Goods Sold", report.Cells("Total Cost of Goods Sold", "30")),
		),
		report.NewSection("", report.Cells("Net Income", "-100")),
	}

	buckets := report.PivotMonthly(nodes, columns, 2024, report.PivotOptions{})

	assert.Equal(t, report.MonthlyBucket{Month: "Jun 24", Expenses: 100, Net: -100}, buckets[5])
}

func TestPivotMonthly_ColumnOrderDoesNotMatter(t *testing.T) {
	columns := []report.Column{accountColumn(), moneyColumn("2024-03-01"), moneyColumn("2024-01-01")}
	nodes := []report.Node{report.NewSection("", report.Cells("Total Income", "300", "100"))}

	buckets := report.PivotMonthly(nodes, columns, 2024, report.PivotOptions{Compact: true})

	require.Len(t, buckets, 2)
	assert.Equal(t, "Jan 24", buckets[0].Month)
	assert.Equal(t, 100.0, buckets[0].Income)
	assert.Equal(t, "Mar 24", buckets[1].Month)
	assert.Equal(t, 300.0, buckets[1].Income)
}

func TestSumBuckets(t *testing.T) {
	a := []report.MonthlyBucket{{Month: "Jan 24", Income: 0.1, Expenses: 0.2, Net: -0.1}, {Month: "Feb 24"}}
	b := []report.MonthlyBucket{{Month: "Jan 24", Income: 0.2, Expenses: 0.1, Net: 0.1}, {Month: "Feb 24", Net: 5}}
	short := []report.MonthlyBucket{{Month: "Jan 24", Income: 100}}

	sum := report.SumBuckets(a, b, short)
	assert.Equal(t, []report.MonthlyBucket{
		{Month: "Jan 24", Income: 0.3, Expenses: 0.3, Net: 0},
		{Month: "Feb 24", Net: 5},
	}, sum)

	assert.Empty(t, report.SumBuckets())
}

func TestCompactBuckets(t *testing.T) {
	in := []report.MonthlyBucket{{Month: "Jan 24"}, {Month: "Feb 24", Net: 1}, {Month: "Mar 24"}}
	assert.Equal(t, []report.MonthlyBucket{{Month: "Feb 24", Net: 1}}, report.CompactBuckets(in))
	assert.Empty(t, report.CompactBuckets(nil))
}

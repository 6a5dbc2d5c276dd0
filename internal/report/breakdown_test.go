package report_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdops/internal/report"
)

func TestStripAccountCode(t *testing.T) {
	tests := map[string]string{
		"6000 Rent":           "Rent",
		"6100.10 Wages":       "Wages",
		"  7000   Travel":     "Travel",
		"Rent":                "Rent",
		"401k Match":          "401k Match",
		"2024 Conference Fee": "Conference Fee",
		"6000":                "6000",
	}
	for in, want := range tests {
		assert.Equal(t, want, report.StripAccountCode(in), in)
	}
}

func TestExpenseBreakdown_Fixture(t *testing.T) {
	doc := loadFixture(t, "pnl_monthly_2024.json")

	b := report.ExpenseBreakdown(doc.Rows, doc.Columns, 2024, 0)

	assert.Equal(t, []string{"Rent", "Wages", "Subcontractors"}, b.Categories)
	require.Len(t, b.Months, 12)
	jan := b.Months[0]
	assert.Equal(t, "Jan 24", jan.Month)
	assert.Equal(t, 500.0, jan.Value("Rent"))
	assert.Equal(t, 200.0, jan.Value("Wages"))
	assert.Equal(t, 100.0, jan.Value("Subcontractors"))
	assert.Equal(t, 0.0, jan.Value("Consulting Revenue"))
	assert.Equal(t, 0.0, b.Months[2].Value("Wages"))
	assert.Len(t, b.Months[11].Values, 3)
}

func TestExpenseBreakdown_OtherBucket(t *testing.T) {
	doc := loadFixture(t, "pnl_monthly_2024.json")

	b := report.ExpenseBreakdown(doc.Rows, doc.Columns, 2024, 2)

	assert.Equal(t, []string{"Rent", "Wages", report.OtherCategory}, b.Categories)
	assert.Equal(t, 100.0, b.Months[0].Value(report.OtherCategory))
	assert.Equal(t, 150.0, b.Months[1].Value(report.OtherCategory))
	// March has nothing left over, so no Other entry at all.
	assert.Len(t, b.Months[2].Values, 2)
}

func TestExpenseBreakdown_TopEightAndDuplicateLabels(t *testing.T) {
	columns := []report.Column{accountColumn(), moneyColumn("2024-01-01"), moneyColumn("2024-02-01")}
	var leaves []report.Node
	for i := 1; i <= 10; i++ {
		leaves = append(leaves, report.NewData(fmt.Sprintf("%d Cat%02d", 6000+i, i), fmt.Sprintf("%d", i*10), "0"))
	}
	leaves = append(leaves, report.NewData("Cat01", "500", "5"))
	nodes := []report.Node{
		report.NewSection("Income", nil, report.NewData("Sales", "99999", "99999")),
		report.NewSection("Expenses", nil, leaves...),
	}

	b := report.ExpenseBreakdown(nodes, columns, 2024, report.DefaultTopCategories)

	require.Len(t, b.Categories, 9)
	assert.Equal(t, "Cat01", b.Categories[0])
	assert.Equal(t, report.OtherCategory, b.Categories[8])
	assert.NotContains(t, b.Categories, "Sales")
	assert.Equal(t, 510.0, b.Months[0].Value("Cat01"))
	assert.Equal(t, 5.0, b.Months[1].Value("Cat01"))
	// Cat02 and Cat03 are the two smallest after Cat01 moved to the top.
	assert.Equal(t, 50.0, b.Months[0].Value(report.OtherCategory))
	assert.Equal(t, 0.0, b.Months[1].Value(report.OtherCategory))
}

func TestExpenseBreakdown_TiesRankByName(t *testing.T) {
	columns := []report.Column{accountColumn(), moneyColumn("2024-05-01")}
	nodes := []report.Node{
		report.NewSection("Cost of Goods Sold", nil,
			report.NewData("Zeta", "10"),
			report.NewData("Alpha", "10"),
		),
	}

	b := report.ExpenseBreakdown(nodes, columns, 2024, 8)

	assert.Equal(t, []string{"Alpha", "Zeta"}, b.Categories)
}

func TestExpenseBreakdown_NoExpenseSections(t *testing.T) {
	b := report.ExpenseBreakdown([]report.Node{report.NewData("Sales", "10")}, nil, 2024, 8)

	assert.Empty(t, b.Categories)
	require.Len(t, b.Months, 12)
	assert.Empty(t, b.Months[0].Values)
}

func TestMonthBreakdown_MarshalJSON(t *testing.T) {
	m := report.MonthBreakdown{
		Month: "Jan 24",
		Values: []report.CategoryValue{
			{Category: "Rent", Amount: 500},
			{Category: "Office \"Supplies\"", Amount: 12.5},
			{Category: report.OtherCategory, Amount: 3},
		},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"month":"Jan 24","Rent":500,"Office \"Supplies\"":12.5,"Other":3}`, string(data))
}

package report

// Options controls FlattenRows. The zero value keeps zero rows, reads the
// second cell and emits headers, the same as PolicyReport.
type Options struct {
	// DropZero skips leaf rows whose amount is zero or blank.
	DropZero bool
	// Amount selects the amount cell of each row.
	Amount AmountColumn
	// SuppressHeaders drops section header rows.
	SuppressHeaders bool
}

// Named flattening policies. Each caller picks the one matching its output.
var (
	// PolicyReport renders a report as-is for the generic report endpoint.
	PolicyReport = Options{Amount: AmountSecond}
	// PolicyDigest drops empty lines for the digest summary.
	PolicyDigest = Options{DropZero: true, Amount: AmountSecond}
	// PolicyAgingDetail reads variable-width aging detail rows.
	PolicyAgingDetail = Options{Amount: AmountLast, SuppressHeaders: true}
)

// DefaultOptions returns PolicyReport.
func DefaultOptions() Options {
	return PolicyReport
}

// PolicyFor returns the flattening policy for a vendor report name.
func PolicyFor(reportName string) Options {
	switch reportName {
	case "AgedReceivableDetail", "AgedPayableDetail":
		return PolicyAgingDetail
	default:
		return PolicyReport
	}
}

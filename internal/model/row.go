package model

// RowHeader is the column order of every export format
var RowHeader = []string{
	"Country",
	"Strategy name",
	"Description / summary",
	"Link",
	"Verification status",
}

// Row is one exported line: a single record after aggregation
type Row struct {
	Country      string             `json:"country"`
	StrategyName string             `json:"strategy_name"`
	Description  string             `json:"description"`
	Link         string             `json:"link"`
	Status       VerificationStatus `json:"verification_status"`
}

// Values returns the row cells in RowHeader order
func (r Row) Values() []string {
	return []string{r.Country, r.StrategyName, r.Description, r.Link, string(r.Status)}
}

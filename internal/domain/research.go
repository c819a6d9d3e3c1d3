package domain

// MetricUnavailable marks a financial field the company table has no value
// for. Absent fields are always rendered with this sentinel, never omitted.
const MetricUnavailable = "N/A"

// Officer is one entry of a company's officer list.
type Officer struct {
	Name     string
	Title    string
	Age      string
	TotalPay string
}

// CompanyRecord holds the precomputed score and enrichment metrics for one
// company in the research table.
type CompanyRecord struct {
	Ticker        string
	Score         float64
	CurrentPrice  string
	HighLTM       string
	LowLTM        string
	TrailingPE    string
	ForwardPE     string
	Volume        string
	MarketCap     string
	PriceToSales  string
	RevenueGrowth string
	EBITDA        string
	GrossMargin   string
	Currency      string
	Sector        string
	Website       string
	Industry      string
	Employees     string
	Officers      []Officer
}

// ResearchSummary maps company name to its enriched record. Produced per
// advice request; not persisted across turns.
type ResearchSummary map[string]CompanyRecord

// Package research gathers the precomputed company screen and condenses it
// into a digest the advisor can carry into conversation.
package research

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"advisor-agent/internal/domain"
)

// CompanySource yields the scored company records behind a research summary.
type CompanySource interface {
	TopCompanies(ctx context.Context) (domain.ResearchSummary, error)
}

// ModelClient is the model boundary used for report summarization.
type ModelClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// Manager produces research summaries and their model-written digests. The
// digest call uses the advisor's model binding, not one of the three pipeline
// agents.
type Manager struct {
	source CompanySource
	client ModelClient
	model  string
}

// NewManager creates a Manager summarizing with the given model.
func NewManager(source CompanySource, client ModelClient, model string) (*Manager, error) {
	if source == nil {
		return nil, errors.New("research: company source must not be nil")
	}
	if client == nil {
		return nil, errors.New("research: model client must not be nil")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("research: summarization model must not be empty")
	}
	return &Manager{source: source, client: client, model: model}, nil
}

// ResearchSummary returns the current screened company set.
func (m *Manager) ResearchSummary(ctx context.Context) (domain.ResearchSummary, error) {
	return m.source.TopCompanies(ctx)
}

// SummarizeReport renders the summary to text and asks the model for a
// concise digest of it.
func (m *Manager) SummarizeReport(ctx context.Context, summary domain.ResearchSummary) (string, error) {
	prompt := "Please provide a concise summary of the following research report:\n\n" + RenderReport(summary)
	digest, err := m.client.Complete(ctx, m.model, prompt)
	if err != nil {
		return "", fmt.Errorf("research: summarize report: %w", err)
	}
	return strings.TrimSpace(digest), nil
}

// RenderReport flattens a research summary into the line-per-field text form
// fed to the summarization prompt. Companies are ordered by name so the
// rendering is deterministic.
func RenderReport(summary domain.ResearchSummary) string {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		r := summary[name]
		fmt.Fprintf(&b, "Company: %s\n", name)
		fmt.Fprintf(&b, "ticker: %s\n", r.Ticker)
		fmt.Fprintf(&b, "f_score: %g\n", r.Score)
		fmt.Fprintf(&b, "current_stock_price: %s\n", orUnavailable(r.CurrentPrice))
		fmt.Fprintf(&b, "high_ltm: %s\n", orUnavailable(r.HighLTM))
		fmt.Fprintf(&b, "low_ltm: %s\n", orUnavailable(r.LowLTM))
		fmt.Fprintf(&b, "trailing_pe: %s\n", orUnavailable(r.TrailingPE))
		fmt.Fprintf(&b, "forward_pe: %s\n", orUnavailable(r.ForwardPE))
		fmt.Fprintf(&b, "volume: %s\n", orUnavailable(r.Volume))
		fmt.Fprintf(&b, "market_cap: %s\n", orUnavailable(r.MarketCap))
		fmt.Fprintf(&b, "price_to_sales: %s\n", orUnavailable(r.PriceToSales))
		fmt.Fprintf(&b, "revenue_growth: %s\n", orUnavailable(r.RevenueGrowth))
		fmt.Fprintf(&b, "ebitda: %s\n", orUnavailable(r.EBITDA))
		fmt.Fprintf(&b, "gross_margin: %s\n", orUnavailable(r.GrossMargin))
		fmt.Fprintf(&b, "currency: %s\n", orUnavailable(r.Currency))
		fmt.Fprintf(&b, "sector: %s\n", orUnavailable(r.Sector))
		fmt.Fprintf(&b, "website: %s\n", orUnavailable(r.Website))
		fmt.Fprintf(&b, "industry: %s\n", orUnavailable(r.Industry))
		fmt.Fprintf(&b, "employees: %s\n", orUnavailable(r.Employees))
		fmt.Fprintf(&b, "officers: %s\n", renderOfficers(r.Officers))
		b.WriteString("\n")
	}
	return b.String()
}

// orUnavailable keeps absent metrics visible in the rendering instead of
// printing blank lines.
func orUnavailable(v string) string {
	if strings.TrimSpace(v) == "" {
		return domain.MetricUnavailable
	}
	return v
}

func renderOfficers(officers []domain.Officer) string {
	if len(officers) == 0 {
		return domain.MetricUnavailable
	}
	parts := make([]string, 0, len(officers))
	for _, o := range officers {
		parts = append(parts, fmt.Sprintf("(%s, %s, %s, %s)", o.Name, o.Title, o.Age, o.TotalPay))
	}
	return strings.Join(parts, "; ")
}

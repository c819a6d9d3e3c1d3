package research

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"advisor-agent/internal/domain"
)

// minScore is the screening threshold: only companies whose precomputed score
// exceeds it are surfaced in the research summary.
const minScore = 8

// dynamodbAPI is the minimal DynamoDB interface required by Store.
type dynamodbAPI interface {
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store reads the precomputed, pre-scored company table. Scoring and
// enrichment happen offline; the store only scans and filters.
type Store struct {
	api       dynamodbAPI
	tableName string
}

// NewStore creates a Store over the given company table.
func NewStore(api dynamodbAPI, tableName string) (*Store, error) {
	if api == nil {
		return nil, errors.New("research: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("research: table name must not be empty")
	}
	return &Store{api: api, tableName: tableName}, nil
}

// TopCompanies scans the table and returns every company with score > 8,
// keyed by company name. Items missing the name or ticker are omitted from
// the result; they never abort the scan. Paginates until the table is
// exhausted.
func (s *Store) TopCompanies(ctx context.Context) (domain.ResearchSummary, error) {
	summary := domain.ResearchSummary{}

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("research: scan company table: %w", err)
		}
		for _, item := range out.Items {
			name, record, ok := itemToRecord(item)
			if !ok {
				continue
			}
			if record.Score > minScore {
				summary[name] = record
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return summary, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// itemToRecord converts a company item into a CompanyRecord. The third return
// is false when the item lacks identity fields and must be skipped. Missing
// metric fields become the unavailable sentinel, never an error.
func itemToRecord(item map[string]types.AttributeValue) (string, domain.CompanyRecord, bool) {
	name := strAttr(item, "name")
	ticker := strAttr(item, "ticker")
	if name == "" || ticker == "" {
		return "", domain.CompanyRecord{}, false
	}

	score, err := floatAttr(item, "f_score")
	if err != nil {
		return "", domain.CompanyRecord{}, false
	}

	return name, domain.CompanyRecord{
		Ticker:        ticker,
		Score:         score,
		CurrentPrice:  metricAttr(item, "current_stock_price"),
		HighLTM:       metricAttr(item, "high_ltm"),
		LowLTM:        metricAttr(item, "low_ltm"),
		TrailingPE:    metricAttr(item, "trailing_pe"),
		ForwardPE:     metricAttr(item, "forward_pe"),
		Volume:        metricAttr(item, "volume"),
		MarketCap:     metricAttr(item, "market_cap"),
		PriceToSales:  metricAttr(item, "price_to_sales"),
		RevenueGrowth: metricAttr(item, "revenue_growth"),
		EBITDA:        metricAttr(item, "ebitda"),
		GrossMargin:   metricAttr(item, "gross_margin"),
		Currency:      metricAttr(item, "currency"),
		Sector:        metricAttr(item, "sector"),
		Website:       metricAttr(item, "website"),
		Industry:      metricAttr(item, "industry"),
		Employees:     metricAttr(item, "employees"),
		Officers:      officersAttr(item),
	}, true
}

// strAttr returns the string attribute value, or "" if absent or not a string.
func strAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// metricAttr reads a metric stored as either a string or number attribute,
// substituting the unavailable sentinel when the field is absent or blank.
func metricAttr(item map[string]types.AttributeValue, key string) string {
	switch v := item[key].(type) {
	case *types.AttributeValueMemberS:
		if strings.TrimSpace(v.Value) != "" {
			return v.Value
		}
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return domain.MetricUnavailable
}

func floatAttr(item map[string]types.AttributeValue, key string) (float64, error) {
	var raw string
	switch v := item[key].(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	default:
		return 0, fmt.Errorf("research: missing attribute %q", key)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("research: parse attribute %q: %w", key, err)
	}
	return f, nil
}

// officersAttr decodes the officer list attribute. Malformed entries degrade
// to unavailable fields rather than failing the company.
func officersAttr(item map[string]types.AttributeValue) []domain.Officer {
	list, ok := item["officers"].(*types.AttributeValueMemberL)
	if !ok {
		return nil
	}
	officers := make([]domain.Officer, 0, len(list.Value))
	for _, entry := range list.Value {
		m, ok := entry.(*types.AttributeValueMemberM)
		if !ok {
			continue
		}
		officers = append(officers, domain.Officer{
			Name:     metricAttr(m.Value, "name"),
			Title:    metricAttr(m.Value, "title"),
			Age:      metricAttr(m.Value, "age"),
			TotalPay: metricAttr(m.Value, "total_pay"),
		})
	}
	return officers
}

package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/domain"
)

type Repository struct {
	client *opensearch.Client
	config *config.OpenSearchConfig

	// indices already known to exist, so Index does not probe on every call
	known sync.Map
}

func NewRepository(client *opensearch.Client, config *config.OpenSearchConfig) *Repository {
	return &Repository{
		client: client,
		config: config,
	}
}

func (r *Repository) Index(ctx context.Context, entry *domain.AuditEntry) error {
	indexTime := entryTime(entry)
	if err := r.CreateIndex(ctx, indexTime); err != nil {
		return fmt.Errorf("failed to ensure index exists: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      r.config.GetIndexName(indexTime),
		DocumentID: entry.ID,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

func (r *Repository) BulkIndex(ctx context.Context, entries []domain.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	groups := make(map[string][]domain.AuditEntry)
	for _, entry := range entries {
		indexTime := entryTime(&entry)
		if err := r.CreateIndex(ctx, indexTime); err != nil {
			return fmt.Errorf("failed to ensure index exists: %w", err)
		}
		name := r.config.GetIndexName(indexTime)
		groups[name] = append(groups[name], entry)
	}

	for indexName, group := range groups {
		body, err := buildBulkBody(indexName, group)
		if err != nil {
			return err
		}

		req := opensearchapi.BulkRequest{Body: bytes.NewReader(body)}
		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("failed to execute bulk request for %s: %w", indexName, err)
		}
		if res.IsError() {
			res.Body.Close()
			return fmt.Errorf("bulk request for %s failed: %s", indexName, res.String())
		}
		res.Body.Close()
	}

	return nil
}

func buildBulkBody(indexName string, entries []domain.AuditEntry) ([]byte, error) {
	var buf bytes.Buffer
	for _, entry := range entries {
		action := map[string]any{
			"index": map[string]any{
				"_index": indexName,
				"_id":    entry.ID,
			},
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal action: %w", err)
		}
		buf.Write(actionLine)
		buf.WriteByte('\n')

		docLine, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Search runs a filtered query across all monthly indices and returns one page plus the total hit count.
func (r *Repository) Search(ctx context.Context, filter *domain.AuditEntryFilter) ([]domain.AuditEntry, int64, error) {
	queryJSON, err := json.Marshal(buildSearchQuery(filter))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal query: %w", err)
	}

	ignoreUnavailable := true
	req := opensearchapi.SearchRequest{
		Index:             []string{r.config.GetIndexPattern()},
		Body:              bytes.NewReader(queryJSON),
		IgnoreUnavailable: &ignoreUnavailable,
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return []domain.AuditEntry{}, 0, nil
		}
		return nil, 0, fmt.Errorf("search request failed: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source domain.AuditEntry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	entries := make([]domain.AuditEntry, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		entries = append(entries, hit.Source)
	}

	return entries, searchResult.Hits.Total.Value, nil
}

// buildSearchQuery turns the filter into a bool query: keyword fields as
// term filters, the message as a full-text match, created_at as a range.
func buildSearchQuery(filter *domain.AuditEntryFilter) map[string]any {
	must := make([]map[string]any, 0)

	terms := []struct {
		field string
		value string
	}{
		{"tenant_id", filter.TenantID},
		{"actor_id", filter.ActorID},
		{"code", filter.Code},
		{"action", filter.Action},
		{"severity", filter.Severity},
	}
	for _, t := range terms {
		if t.value != "" {
			must = append(must, map[string]any{"term": map[string]any{t.field: t.value}})
		}
	}

	if filter.Query != "" {
		must = append(must, map[string]any{
			"match": map[string]any{
				"message": map[string]any{"query": filter.Query, "operator": "and"},
			},
		})
	}

	if !filter.StartTime.IsZero() || !filter.EndTime.IsZero() {
		timeRange := make(map[string]any)
		if !filter.StartTime.IsZero() {
			timeRange["gte"] = filter.StartTime.UTC().Format(time.RFC3339Nano)
		}
		if !filter.EndTime.IsZero() {
			timeRange["lte"] = filter.EndTime.UTC().Format(time.RFC3339Nano)
		}
		must = append(must, map[string]any{"range": map[string]any{"created_at": timeRange}})
	}

	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": must,
			},
		},
		"sort": []map[string]any{
			{"created_at": map[string]any{"order": "desc"}},
		},
		"track_total_hits": true,
	}

	if filter.Limit > 0 {
		query["from"] = filter.Offset
		query["size"] = filter.Limit
	}

	return query
}

const indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"tenant_id": { "type": "keyword" },
			"actor_id": { "type": "keyword" },
			"actor_role": { "type": "keyword" },
			"action": { "type": "keyword" },
			"code": { "type": "keyword" },
			"severity": { "type": "keyword" },
			"message": { "type": "text" },
			"metadata": { "type": "object", "enabled": false },
			"created_at": { "type": "date" }
		}
	},
	"settings": {
		"index": {
			"number_of_shards": 1,
			"number_of_replicas": 1,
			"refresh_interval": "1s"
		}
	}
}`

func (r *Repository) CreateIndex(ctx context.Context, t time.Time) error {
	indexName := r.config.GetIndexName(t)
	if _, ok := r.known.Load(indexName); ok {
		return nil
	}

	exists := opensearchapi.IndicesExistsRequest{Index: []string{indexName}}
	res, err := exists.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		r.known.Store(indexName, struct{}{})
		return nil
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(indexMapping),
	}
	res, err = create.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	// a concurrent creator may have won the race
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	r.known.Store(indexName, struct{}{})
	return nil
}

// DeleteBefore removes indexed entries older than before, optionally for one tenant.
func (r *Repository) DeleteBefore(ctx context.Context, tenantID string, before time.Time) (int64, error) {
	filter := []map[string]any{
		{"range": map[string]any{"created_at": map[string]any{"lt": before.UTC().Format(time.RFC3339Nano)}}},
	}
	if tenantID != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"tenant_id": tenantID}})
	}
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"bool": map[string]any{"filter": filter}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal delete query: %w", err)
	}

	ignoreUnavailable := true
	req := opensearchapi.DeleteByQueryRequest{
		Index:             []string{r.config.GetIndexPattern()},
		Body:              bytes.NewReader(body),
		IgnoreUnavailable: &ignoreUnavailable,
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return 0, fmt.Errorf("failed to delete by query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("delete by query failed: %s", res.String())
	}

	var result struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return result.Deleted, nil
}

func entryTime(entry *domain.AuditEntry) time.Time {
	if entry.CreatedAt.IsZero() {
		return time.Now().UTC()
	}
	return entry.CreatedAt
}

package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// NewElasticClient connects to the cluster and checks it answers
func NewElasticClient(cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: invalid config: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elastic: cannot connect to cluster: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic: cluster returned error: %s", res.String())
	}
	return client, nil
}

type CourseSearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewCourseSearchIndex(client *elasticsearch.Client, index string) *CourseSearchIndex {
	return &CourseSearchIndex{client: client, index: index}
}

type courseDocument struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Level       string   `json:"level"`
	Tags        []string `json:"tags"`
}

// CreateIndexIfNotExist creates the index with an edge-ngram analyzer for prefix matches
func (r *CourseSearchIndex) CreateIndexIfNotExist(ctx context.Context) error {
	existsRes, err := esapi.IndicesExistsRequest{Index: []string{r.index}}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error checking index existence: %w", err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == http.StatusOK {
		return nil
	}
	if existsRes.StatusCode != http.StatusNotFound {
		return fmt.Errorf("index existence check failed with status code %d", existsRes.StatusCode)
	}

	text := map[string]interface{}{
		"type":            "text",
		"analyzer":        "edge_ngram_analyzer",
		"search_analyzer": "standard",
	}
	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"analysis": map[string]interface{}{
				"analyzer": map[string]interface{}{
					"edge_ngram_analyzer": map[string]interface{}{
						"tokenizer": "edge_ngram_tokenizer",
						"filter":    []string{"lowercase"},
					},
				},
				"tokenizer": map[string]interface{}{
					"edge_ngram_tokenizer": map[string]interface{}{
						"type":        "edge_ngram",
						"min_gram":    2,
						"max_gram":    20,
						"token_chars": []string{"letter", "digit"},
					},
				},
			},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":       text,
				"description": text,
				"category":    map[string]interface{}{"type": "keyword"},
				"level":       map[string]interface{}{"type": "keyword"},
				"tags":        map[string]interface{}{"type": "text"},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	res, err := esapi.IndicesCreateRequest{Index: r.index, Body: bytes.NewReader(body)}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("mapping creation failed: %s", res.String())
	}
	return nil
}

func (r *CourseSearchIndex) IndexCourse(ctx context.Context, course *models.Course) error {
	data, err := json.Marshal(courseDocument{
		Title:       course.Title,
		Description: course.Description,
		Category:    course.Category,
		Level:       string(course.Level),
		Tags:        course.Tags,
	})
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: strconv.FormatUint(uint64(course.ID), 10),
		Refresh:    "true",
		Body:       bytes.NewReader(data),
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

func (r *CourseSearchIndex) DeleteCourse(ctx context.Context, id uint) error {
	res, err := esapi.DeleteRequest{
		Index:      r.index,
		DocumentID: strconv.FormatUint(uint64(id), 10),
		Refresh:    "true",
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer res.Body.Close()
	// an unindexed draft is not an error
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

// Search returns matching course ids by relevance
func (r *CourseSearchIndex) Search(ctx context.Context, query string, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 10
	}
	q := map[string]interface{}{
		"size":    limit,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^3", "description", "tags^2", "category"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
				"operator":  "or",
			},
		},
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := esapi.SearchRequest{Index: []string{r.index}, Body: buf}.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search error: %s", string(bodyBytes))
	}

	var sr struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

var _ repositories.CourseSearchIndex = (*CourseSearchIndex)(nil)

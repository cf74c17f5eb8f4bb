// Package search provides an OpenSearch-backed vector store for interview
// documents, used to recall similar candidate and interview material.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// IndexName is the single index holding interview documents.
const IndexName = "interview_data"

// EmbeddingDimension matches the OpenAI text embedding size.
const EmbeddingDimension = 1536

// Document metadata types.
const (
	DocTypeInterview = "interview"
	DocTypeCV        = "cv"
	DocTypeJob       = "job_description"
)

// Metadata describes a stored document.
type Metadata struct {
	Source      string    `json:"source"`
	Type        string    `json:"type"`
	CandidateID string    `json:"candidate_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Hit is one search result.
type Hit struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
	Score    float64  `json:"score"`
}

// VectorStore wraps an OpenSearch client bound to the interview index.
type VectorStore struct {
	client *opensearch.Client
}

// New connects to OpenSearch and ensures the interview index exists.
func New(ctx context.Context, host string, port int) (*VectorStore, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", host, port)},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // local cluster without certs
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	store := &VectorStore{client: client}
	if err := store.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// indexMapping is the knn-enabled mapping for interview documents.
const indexMapping = `{
  "settings": {
    "index": {
      "knn": true
    }
  },
  "mappings": {
    "properties": {
      "text": {"type": "text"},
      "embedding": {
        "type": "knn_vector",
        "dimension": 1536
      },
      "metadata": {
        "properties": {
          "source": {"type": "keyword"},
          "type": {"type": "keyword"},
          "candidate_id": {"type": "keyword"},
          "timestamp": {"type": "date"}
        }
      }
    }
  }
}`

func (v *VectorStore) ensureIndex(ctx context.Context) error {
	exists := opensearchapi.IndicesExistsRequest{Index: []string{IndexName}}
	res, err := exists.Do(ctx, v.client)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", IndexName, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: IndexName,
		Body:  strings.NewReader(indexMapping),
	}
	createRes, err := create.Do(ctx, v.client)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", IndexName, err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("failed to create index %s: %s", IndexName, createRes.String())
	}
	return nil
}

// AddDocument stores a document with its embedding.
func (v *VectorStore) AddDocument(ctx context.Context, text string, embedding []float32, meta Metadata) error {
	if len(embedding) != EmbeddingDimension {
		return fmt.Errorf("embedding has %d dimensions, want %d", len(embedding), EmbeddingDimension)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(map[string]any{
		"text":      text,
		"embedding": embedding,
		"metadata":  meta,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:   IndexName,
		Body:    bytes.NewReader(body),
		Refresh: "true",
	}
	res, err := req.Do(ctx, v.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("failed to index document: %s", res.String())
	}
	return nil
}

// SearchSimilar finds the k documents nearest to the query embedding.
func (v *VectorStore) SearchSimilar(ctx context.Context, embedding []float32, k int) ([]Hit, error) {
	if k <= 0 {
		k = 5
	}

	query := map[string]any{
		"size": k,
		"query": map[string]any{
			"knn": map[string]any{
				"embedding": map[string]any{
					"vector": embedding,
					"k":      k,
				},
			},
		},
	}
	return v.search(ctx, query)
}

// CandidateHistory returns the most recent interview documents for one
// candidate.
func (v *VectorStore) CandidateHistory(ctx context.Context, candidateID string, k int) ([]Hit, error) {
	if k <= 0 {
		k = 5
	}

	query := map[string]any{
		"size": k,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"term": map[string]any{"metadata.type": DocTypeInterview}},
					map[string]any{"term": map[string]any{"metadata.candidate_id": candidateID}},
				},
			},
		},
		"sort": []any{
			map[string]any{"metadata.timestamp": map[string]any{"order": "desc"}},
		},
	}
	return v.search(ctx, query)
}

func (v *VectorStore) search(ctx context.Context, query map[string]any) ([]Hit, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{IndexName},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, v.client)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", IndexName, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("failed to search %s: %s", IndexName, res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source struct {
					Text     string   `json:"text"`
					Metadata Metadata `json:"metadata"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{
			Text:     h.Source.Text,
			Metadata: h.Source.Metadata,
			Score:    h.Score,
		})
	}
	return hits, nil
}

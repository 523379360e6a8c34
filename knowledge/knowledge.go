package knowledge

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	blevemapping "github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isdmx/tutorbox/config"
)

// metadataFields are the metadata keys the index knows about. They are
// indexed verbatim (keyword analyzer) so filters are exact matches.
var metadataFields = []string{"source", "type", "proficiency", "session_id", "topic"}

// Document is one entry in the knowledge base
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score,omitempty"`
}

// Index is the full-text knowledge base backing the search_knowledge and
// ingest_document tools. It wraps a bleve index, either in-memory or
// persisted at a configured path.
type Index struct {
	logger *zap.Logger
	idx    bleve.Index
}

// New opens the knowledge index. An empty path selects an in-memory index;
// otherwise the index is opened from (or created at) the given path.
func New(logger *zap.Logger, path string) (*Index, error) {
	mapping := buildMapping()

	var (
		idx bleve.Index
		err error
	)
	switch {
	case path == "":
		idx, err = bleve.NewMemOnly(mapping)
	default:
		if _, statErr := os.Stat(path); statErr == nil {
			idx, err = bleve.Open(path)
		} else {
			idx, err = bleve.New(path, mapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge index: %w", err)
	}

	return &Index{logger: logger, idx: idx}, nil
}

// NewFromConfig opens the knowledge index from the application configuration
func NewFromConfig(logger *zap.Logger, cfg *config.Config) (*Index, error) {
	return New(logger, cfg.Knowledge.Path)
}

func buildMapping() *blevemapping.IndexMappingImpl {
	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = true
	docMapping.AddFieldMappingsAt("content", contentField)

	for _, field := range metadataFields {
		kw := bleve.NewTextFieldMapping()
		kw.Analyzer = keyword.Name
		kw.Store = true
		docMapping.AddFieldMappingsAt(field, kw)
	}

	mapping := bleve.NewIndexMapping()
	mapping.DefaultMapping = docMapping
	return mapping
}

// Add indexes one document and returns its generated ID. Metadata keys
// outside the known set are dropped with a warning rather than silently
// polluting the index schema.
func (i *Index) Add(content string, metadata map[string]string) (string, error) {
	doc := map[string]any{"content": content}
	for key, value := range metadata {
		if !knownMetadataField(key) {
			i.logger.Warn("dropping unknown metadata field", zap.String("field", key))
			continue
		}
		doc[key] = value
	}

	id := uuid.NewString()
	if err := i.idx.Index(id, doc); err != nil {
		return "", fmt.Errorf("failed to index document: %w", err)
	}
	return id, nil
}

// Search runs a full-text query over document content, optionally narrowed
// by exact-match metadata filters, and returns up to topK documents.
func (i *Index) Search(ctx context.Context, queryText string, topK int, filters map[string]string) ([]Document, error) {
	if topK <= 0 {
		topK = 3
	}

	match := bleve.NewMatchQuery(queryText)
	match.SetField("content")

	var q query.Query = match
	if len(filters) > 0 {
		conj := bleve.NewConjunctionQuery(match)
		for field, value := range filters {
			if !knownMetadataField(field) {
				return nil, fmt.Errorf("unknown filter field: %s", field)
			}
			term := bleve.NewTermQuery(value)
			term.SetField(field)
			conj.AddQuery(term)
		}
		q = conj
	}

	req := bleve.NewSearchRequestOptions(q, topK, 0, false)
	req.Fields = []string{"*"}

	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("knowledge search failed: %w", err)
	}

	docs := make([]Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc := Document{
			ID:       hit.ID,
			Metadata: make(map[string]string),
			Score:    hit.Score,
		}
		for field, value := range hit.Fields {
			text, ok := value.(string)
			if !ok {
				continue
			}
			if field == "content" {
				doc.Content = text
			} else {
				doc.Metadata[field] = text
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Count returns the number of indexed documents
func (i *Index) Count() (uint64, error) {
	return i.idx.DocCount()
}

// Close releases the underlying index
func (i *Index) Close() error {
	return i.idx.Close()
}

func knownMetadataField(name string) bool {
	for _, field := range metadataFields {
		if field == name {
			return true
		}
	}
	return false
}

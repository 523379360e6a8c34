package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// SearchResult is the outcome of a search_knowledge invocation
type SearchResult struct {
	Tool    string           `json:"tool"`
	Results []SearchDocument `json:"results"`
	Count   int              `json:"count"`
}

// SearchDocument is one matched knowledge base document
type SearchDocument struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// IngestResult is the outcome of an ingest_document invocation
type IngestResult struct {
	Tool           string `json:"tool"`
	Status         string `json:"status"`
	Filename       string `json:"filename"`
	CharsExtracted int    `json:"chars_extracted"`
}

// AssessmentResult is the outcome of an assess_understanding invocation
type AssessmentResult struct {
	Tool      string   `json:"tool"`
	Topic     string   `json:"topic"`
	Questions []string `json:"questions"`
}

// ingestibleExtensions are the plain-text document types ingest_document
// accepts. Rich formats (PDF, DOCX) need the external extraction
// collaborator and are refused here.
var ingestibleExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true,
	".csv": true, ".json": true, ".yaml": true, ".yml": true,
}

// SearchKnowledge searches the knowledge base for relevant documents,
// optionally narrowed by metadata filters and a session ID.
func (r *Registry) SearchKnowledge(ctx context.Context, query string, filters map[string]string, sessionID string) any {
	searchFilters := make(map[string]string, len(filters)+1)
	for k, v := range filters {
		searchFilters[k] = v
	}
	if sessionID != "" {
		searchFilters["session_id"] = sessionID
	}

	docs, err := r.knowledge.Search(ctx, query, 3, searchFilters)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("knowledge search failed: %v", err)}
	}

	results := make([]SearchDocument, 0, len(docs))
	for _, doc := range docs {
		results = append(results, SearchDocument{Content: doc.Content, Metadata: doc.Metadata})
	}

	return SearchResult{
		Tool:    "search_knowledge",
		Results: results,
		Count:   len(results),
	}
}

// IngestDocument reads a plain-text document from disk and adds it to the
// knowledge base.
func (r *Registry) IngestDocument(ctx context.Context, path, sessionID string) any {
	if _, err := os.Stat(path); err != nil {
		return ErrorResult{Error: fmt.Sprintf("file not found: %s", path)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !ingestibleExtensions[ext] {
		return ErrorResult{Error: fmt.Sprintf("unsupported document type %q: text extraction for rich formats is not available", ext)}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to read document: %v", err)}
	}

	filename := filepath.Base(path)
	metadata := map[string]string{
		"source":      filename,
		"type":        strings.TrimPrefix(ext, "."),
		"proficiency": "intermediate",
	}
	if sessionID != "" {
		metadata["session_id"] = sessionID
	}

	if _, err := r.knowledge.Add(string(content), metadata); err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to ingest document: %v", err)}
	}

	r.logger.Info("document ingested",
		zap.String("filename", filename),
		zap.Int("chars", len(content)))

	return IngestResult{
		Tool:           "ingest_document",
		Status:         "success",
		Filename:       filename,
		CharsExtracted: len(content),
	}
}

// AssessUnderstanding returns assessment questions for a topic
func (r *Registry) AssessUnderstanding(topic string) any {
	questions, ok := r.questions[topic]
	if !ok {
		questions = []string{"general comprehension check."}
	}
	return AssessmentResult{
		Tool:      "assess_understanding",
		Topic:     topic,
		Questions: questions,
	}
}

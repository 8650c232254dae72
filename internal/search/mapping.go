package search

import (
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/blevesearch/bleve/v2"
)

// buildIndexMapping defines how documents are analyzed and indexed.
//
// Field strategy:
//   - name, author, text, book_title: full-text with English analysis
//     (stemming, stop words) for natural language matching
//   - type, id, book_id: keyword (exact match) for filtering
//   - page_index, stars, added_at: numeric for sorting and range queries
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Full-text fields with English language analysis.
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = en.AnalyzerName
	textField.Store = true
	textField.IncludeTermVectors = true // Enables highlighting

	// Keyword fields for exact matching and filtering.
	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name
	keywordField.Store = true

	// Numeric fields for sorting.
	numericField := bleve.NewNumericFieldMapping()
	numericField.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", textField)
	docMapping.AddFieldMappingsAt("author", textField)
	docMapping.AddFieldMappingsAt("text", textField)
	docMapping.AddFieldMappingsAt("book_title", textField)
	docMapping.AddFieldMappingsAt("type", keywordField)
	docMapping.AddFieldMappingsAt("id", keywordField)
	docMapping.AddFieldMappingsAt("book_id", keywordField)
	docMapping.AddFieldMappingsAt("page_index", numericField)
	docMapping.AddFieldMappingsAt("stars", numericField)
	docMapping.AddFieldMappingsAt("added_at", numericField)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	return indexMapping
}

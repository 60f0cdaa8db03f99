package render

import (
	"encoding/json"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// JSON serializes the document model. Field order follows the struct
// definitions and map-free types keep the output deterministic.
func JSON(doc *hwpdoc.Document) ([]byte, error) {
	return json.Marshal(doc)
}

// JSONIndent serializes the document model pretty-printed.
func JSONIndent(doc *hwpdoc.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// FromJSON parses a document previously serialized with JSON.
func FromJSON(data []byte) (*hwpdoc.Document, error) {
	var doc hwpdoc.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Package passages holds the retrievable product knowledge: description and
// synthesized-review text plus structured metadata, indexed by embedding.
package passages

import (
	"strconv"
	"strings"
)

// Passage is a unit of retrievable product knowledge.
type Passage struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Metadata     Metadata `json:"metadata"`
	HasEmbedding bool     `json:"hasEmbedding"`
}

// Metadata holds the structured product attributes attached to a passage.
// All fields are optional.
type Metadata struct {
	Category    string   `json:"category,omitempty"`
	Type        string   `json:"type,omitempty"`
	ProductName string   `json:"productName,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	Techniques  []string `json:"techniques,omitempty"`
}

// Scored pairs a passage with its retrieval scores. Similarity comes from
// the vector (or keyword) query; Boost and FinalScore are filled in by the
// ranker for non-default taste profiles.
type Scored struct {
	Passage    Passage
	Similarity float32
	Boost      float64
	FinalScore float64
}

const listSep = "|"

// metadataToMap flattens Metadata into the map[string]string chromem stores.
func metadataToMap(m Metadata) map[string]string {
	md := map[string]string{}
	if m.Category != "" {
		md["category"] = m.Category
	}
	if m.Type != "" {
		md["type"] = m.Type
	}
	if m.ProductName != "" {
		md["product_name"] = m.ProductName
	}
	if m.Brand != "" {
		md["brand"] = m.Brand
	}
	if m.Rating > 0 {
		md["rating"] = strconv.FormatFloat(m.Rating, 'f', -1, 64)
	}
	if len(m.Materials) > 0 {
		md["materials"] = strings.Join(m.Materials, listSep)
	}
	if len(m.Techniques) > 0 {
		md["techniques"] = strings.Join(m.Techniques, listSep)
	}
	return md
}

// mapToMetadata converts a flat map[string]string back to Metadata.
func mapToMetadata(md map[string]string) Metadata {
	m := Metadata{
		Category:    md["category"],
		Type:        md["type"],
		ProductName: md["product_name"],
		Brand:       md["brand"],
	}
	if r, err := strconv.ParseFloat(md["rating"], 64); err == nil {
		m.Rating = r
	}
	if v := md["materials"]; v != "" {
		m.Materials = strings.Split(v, listSep)
	}
	if v := md["techniques"]; v != "" {
		m.Techniques = strings.Split(v, listSep)
	}
	return m
}

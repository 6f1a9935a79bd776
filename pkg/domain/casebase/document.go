package casebase

import (
	"encoding/json"
)

// Document is the JSON payload stored alongside a case embedding in the
// vector index, so a similarity hit carries everything the scoring path
// needs without a round trip to the durable store.
type Document struct {
	LogID        string  `json:"log_id"`
	Content      string  `json:"content"`
	ImmoralScore float64 `json:"immoral_score"`
	SpamScore    float64 `json:"spam_score"`
	Confidence   float64 `json:"confidence"`
	Label        Label   `json:"label"`
}

func (e *Entry) Document() *Document {
	return &Document{
		LogID:        e.LogID.String(),
		Content:      e.Content,
		ImmoralScore: e.ImmoralScore,
		SpamScore:    e.SpamScore,
		Confidence:   e.Confidence,
		Label:        e.ConfirmedLabel,
	}
}

func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

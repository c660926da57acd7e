package pgvector

import (
	"reflect"
	"testing"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore"
)

var _ vectorstore.Store = (*Store)(nil)

func TestMetadataRoundTrip(t *testing.T) {
	metadata := map[string]any{
		"source":      "docs/manual.pdf",
		"page":        3,
		"page_label":  "4",
		"total_pages": 12,
	}

	data, err := encodeMetadata(metadata)
	if err != nil {
		t.Fatalf("encodeMetadata failed: %v", err)
	}

	decoded, err := decodeMetadata(data)
	if err != nil {
		t.Fatalf("decodeMetadata failed: %v", err)
	}

	// JSON numbers come back as float64
	want := map[string]any{
		"source":      "docs/manual.pdf",
		"page":        float64(3),
		"page_label":  "4",
		"total_pages": float64(12),
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("Expected %v, got %v", want, decoded)
	}
}

func TestEncodeMetadata_Nil(t *testing.T) {
	data, err := encodeMetadata(nil)
	if err != nil {
		t.Fatalf("encodeMetadata failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty object, got %s", data)
	}
}

func TestDecodeMetadata_Empty(t *testing.T) {
	metadata, err := decodeMetadata(nil)
	if err != nil || metadata != nil {
		t.Errorf("Expected nil metadata, got %v %v", metadata, err)
	}

	if _, err := decodeMetadata([]byte("not json")); err == nil {
		t.Error("Expected error for invalid json")
	}
}

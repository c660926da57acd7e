package qdrant

import (
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/qdrant/go-client/qdrant"
)

func buildPayload(chunk models.Chunk) (map[string]*qdrant.Value, error) {
	payload := map[string]any{
		payloadChunkID: chunk.ID,
		payloadText:    chunk.Text,
	}
	if len(chunk.Metadata) > 0 {
		payload[payloadMetadata] = chunk.Metadata
	}

	return qdrant.TryValueMap(payload)
}

func chunkFromPayload(payload map[string]*qdrant.Value) models.Chunk {
	chunk := models.Chunk{
		ID:   payload[payloadChunkID].GetStringValue(),
		Text: payload[payloadText].GetStringValue(),
	}

	if fields := payload[payloadMetadata].GetStructValue().GetFields(); len(fields) > 0 {
		chunk.Metadata = make(map[string]any, len(fields))
		for key, value := range fields {
			chunk.Metadata[key] = fromValue(value)
		}
	}

	return chunk
}

func fromValue(value *qdrant.Value) any {
	switch kind := value.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_StructValue:
		out := make(map[string]any, len(kind.StructValue.GetFields()))
		for key, field := range kind.StructValue.GetFields() {
			out[key] = fromValue(field)
		}
		return out
	case *qdrant.Value_ListValue:
		out := make([]any, 0, len(kind.ListValue.GetValues()))
		for _, item := range kind.ListValue.GetValues() {
			out = append(out, fromValue(item))
		}
		return out
	default:
		return nil
	}
}

package ingestion

// CleanMetadata returns a copy of metadata without nil or empty-string values.
// Every other key is kept with its value unchanged.
func CleanMetadata(metadata map[string]any) map[string]any {
	cleaned := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		cleaned[k] = v
	}

	return cleaned
}

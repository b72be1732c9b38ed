package awsexplorer

func schemaListViews() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func schemaSearchResources() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query_string": map[string]any{"type": "string", "description": "Resource Explorer query, for example \"service:ec2 tag:env=prod\""},
			"view_arn":     map[string]any{"type": "string", "description": "ARN of the view to search"},
			"max_results":  map[string]any{"type": "integer", "minimum": 1, "maximum": MaxSearchResults, "default": DefaultSearchMaxResults},
			"next_token":   map[string]any{"type": "string", "description": "Continuation token from a previous search"},
		},
		"required": []string{"query_string", "view_arn"},
	}
}

func schemaCreateView() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":        map[string]any{"type": "string", "description": "Filter string applied to the view"},
			"view_name":    map[string]any{"type": "string"},
			"name":         map[string]any{"type": "string", "description": "Name tag for the view"},
			"tags":         map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
			"scope":        map[string]any{"type": "string", "description": "Root ARN of the account, organization or OU the view covers"},
			"client_token": map[string]any{"type": "string", "description": "Idempotency token; generated when omitted"},
		},
		"required": []string{"query", "view_name", "name"},
	}
}

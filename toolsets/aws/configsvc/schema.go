package awsconfigsvc

func schemaDiscoverRelationships() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"resource_type": map[string]any{"type": "string", "description": "AWS Config resource type, for example AWS::EC2::Instance"},
			"resource_id":   map[string]any{"type": "string"},
			"limit": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     MaxLimit,
				"default":     DefaultLimit,
				"description": "Maximum configuration items to fetch; 0 uses the service default",
			},
			"chronological_order": map[string]any{
				"type":    "string",
				"enum":    []string{OrderReverse, OrderForward},
				"default": OrderReverse,
			},
		},
		"required": []string{"resource_type", "resource_id"},
	}
}

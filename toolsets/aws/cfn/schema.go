package awscfn

func schemaListStacks() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func schemaGetStackResources() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stack_name": map[string]any{"type": "string", "description": "Name or ARN of the CloudFormation stack"},
		},
		"required": []string{"stack_name"},
	}
}

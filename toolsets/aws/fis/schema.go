package awsfis

func schemaListExperiments() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func schemaListExperimentTemplates() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func schemaGetExperiment() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "string", "description": "The experiment ID"},
		},
		"required": []string{"id"},
	}
}

func schemaGetExperimentTemplate() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "string", "description": "The experiment template ID"},
		},
		"required": []string{"id"},
	}
}

func schemaStartExperiment() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string", "description": "The experiment template ID"},
			"name": map[string]any{"type": "string", "description": "Name tag for the experiment"},
			"tags": schemaStringMap("Additional tags for the experiment"),
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{ActionsModeRunAll, ActionsModeSkipAll, ActionsModeStopOnFailure},
				"default":     ActionsModeRunAll,
				"description": "Actions mode for the experiment",
			},
			"max_timeout_seconds":   map[string]any{"type": "integer", "minimum": 0, "default": DefaultMaxTimeoutSeconds},
			"initial_poll_interval": map[string]any{"type": "integer", "minimum": 0, "default": DefaultInitialPollInterval},
			"max_poll_interval":     map[string]any{"type": "integer", "minimum": 0, "default": DefaultMaxPollInterval},
		},
		"required": []string{"id", "name"},
	}
}

func schemaCreateExperimentTemplate() map[string]any {
	properties := templateProperties("report_configuration")
	properties["clientToken"] = map[string]any{"type": "string", "description": "Idempotency token"}
	properties["name"] = map[string]any{"type": "string", "description": "Name tag for the template"}
	properties["tags"] = schemaStringMap("Additional tags for the template")
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   []string{"clientToken", "description", "role_arn", "name"},
	}
}

func schemaUpdateExperimentTemplate() map[string]any {
	properties := templateProperties("experiment_report_configuration")
	properties["id"] = map[string]any{"type": "string", "description": "The experiment template ID"}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   []string{"id"},
	}
}

func templateProperties(reportKey string) map[string]any {
	return map[string]any{
		"description": map[string]any{"type": "string"},
		"role_arn":    map[string]any{"type": "string", "description": "IAM role FIS assumes to run actions"},
		"stop_conditions": map[string]any{
			"type":  "array",
			"items": schemaStopCondition(),
		},
		"targets": map[string]any{
			"type":                 "object",
			"additionalProperties": schemaTarget(),
		},
		"actions": map[string]any{
			"type":                 "object",
			"additionalProperties": schemaAction(),
		},
		"log_configuration":  schemaLogConfiguration(),
		"experiment_options": schemaStringMap("accountTargeting and emptyTargetResolutionMode"),
		reportKey: map[string]any{
			"type":        "object",
			"description": "Experiment report configuration (outputs, dataSources, preExperimentDuration, postExperimentDuration)",
		},
	}
}

func schemaStopCondition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{"type": "string"},
			"value":  map[string]any{"type": "string"},
		},
		"required": []string{"source"},
	}
}

func schemaTarget() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"resourceType": map[string]any{"type": "string"},
			"resourceArns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"resourceTags": schemaStringMap(""),
			"filters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"path":   map[string]any{"type": "string"},
						"values": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required": []string{"path", "values"},
				},
			},
			"selectionMode": map[string]any{"type": "string"},
			"parameters":    schemaStringMap(""),
		},
		"required": []string{"resourceType", "selectionMode"},
	}
}

func schemaAction() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"actionId":    map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"parameters":  schemaStringMap(""),
			"targets":     schemaStringMap("Target role to target name"),
			"startAfter":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"actionId"},
	}
}

func schemaLogConfiguration() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"logSchemaVersion": map[string]any{"type": "integer"},
			"cloudWatchLogsConfiguration": map[string]any{
				"type":       "object",
				"properties": map[string]any{"logGroupArn": map[string]any{"type": "string"}},
			},
			"s3Configuration": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"bucketName": map[string]any{"type": "string"},
					"prefix":     map[string]any{"type": "string"},
				},
			},
		},
		"required": []string{"logSchemaVersion"},
	}
}

func schemaStringMap(description string) map[string]any {
	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": map[string]any{"type": "string"},
	}
	if description != "" {
		schema["description"] = description
	}
	return schema
}

package awsfis

import (
	"context"
	_ "embed"

	"sigs.k8s.io/yaml"

	"fismcp/internal/mcp"
)

const SampleTemplateURI = "fis://templates/sample"

//go:embed sample_template.yaml
var sampleTemplateYAML []byte

// SampleTemplate returns the sample experiment template as JSON.
func SampleTemplate() (string, error) {
	data, err := yaml.YAMLToJSON(sampleTemplateYAML)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func Resources() []mcp.ResourceSpec {
	return []mcp.ResourceSpec{
		{
			URI:         SampleTemplateURI,
			Name:        "sample-experiment-template",
			Description: "Sample FIS experiment template that stops and restarts tagged EC2 instances.",
			MIMEType:    "application/json",
			Read: func(context.Context) (string, error) {
				return SampleTemplate()
			},
		},
	}
}

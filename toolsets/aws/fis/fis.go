package awsfis

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/fis"
	"github.com/aws/aws-sdk-go-v2/service/fis/types"

	"fismcp/internal/mcp"
	"fismcp/internal/paginate"
	"fismcp/internal/policy"
	"fismcp/internal/render"
)

// API is the subset of the FIS client the tools call.
type API interface {
	ListExperiments(ctx context.Context, params *fis.ListExperimentsInput, optFns ...func(*fis.Options)) (*fis.ListExperimentsOutput, error)
	GetExperiment(ctx context.Context, params *fis.GetExperimentInput, optFns ...func(*fis.Options)) (*fis.GetExperimentOutput, error)
	ListExperimentTemplates(ctx context.Context, params *fis.ListExperimentTemplatesInput, optFns ...func(*fis.Options)) (*fis.ListExperimentTemplatesOutput, error)
	GetExperimentTemplate(ctx context.Context, params *fis.GetExperimentTemplateInput, optFns ...func(*fis.Options)) (*fis.GetExperimentTemplateOutput, error)
	StartExperiment(ctx context.Context, params *fis.StartExperimentInput, optFns ...func(*fis.Options)) (*fis.StartExperimentOutput, error)
	CreateExperimentTemplate(ctx context.Context, params *fis.CreateExperimentTemplateInput, optFns ...func(*fis.Options)) (*fis.CreateExperimentTemplateOutput, error)
	UpdateExperimentTemplate(ctx context.Context, params *fis.UpdateExperimentTemplateInput, optFns ...func(*fis.Options)) (*fis.UpdateExperimentTemplateOutput, error)
}

var _ API = (*fis.Client)(nil)

// ClientFunc returns the current FIS client and its region.
type ClientFunc func(context.Context) (API, string, error)

type Service struct {
	ctx       mcp.ToolsetContext
	fisClient ClientFunc
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, fisClient ClientFunc) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, fisClient: fisClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "ListFISExperiments",
			Title:       "List FIS experiments",
			Description: "List all AWS FIS experiments, keyed by their Name tag.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListExperiments(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListExperiments,
		},
		{
			Name:        "GetFISExperiment",
			Title:       "Get FIS experiment",
			Description: "Get detailed information about a specific FIS experiment.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetExperiment(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetExperiment,
		},
		{
			Name:        "ListFISExperimentTemplates",
			Title:       "List FIS experiment templates",
			Description: "List all FIS experiment templates.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListExperimentTemplates(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListExperimentTemplates,
		},
		{
			Name:        "GetFISExperimentTemplate",
			Title:       "Get FIS experiment template",
			Description: "Get detailed information about a specific FIS experiment template.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetExperimentTemplate(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetExperimentTemplate,
		},
		{
			Name:        "StartFISExperiment",
			Title:       "Start FIS experiment",
			Description: "Start a FIS experiment from a template and return as soon as the service accepts it (requires --allow-writes).",
			ToolsetID:   toolsetID,
			InputSchema: schemaStartExperiment(),
			Safety:      mcp.SafetyDestructive,
			Handler:     svc.handleStartExperiment,
		},
		{
			Name:        "CreateFISExperimentTemplate",
			Title:       "Create FIS experiment template",
			Description: "Create a new FIS experiment template (requires --allow-writes).",
			ToolsetID:   toolsetID,
			InputSchema: schemaCreateExperimentTemplate(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateExperimentTemplate,
		},
		{
			Name:        "UpdateFISExperimentTemplate",
			Title:       "Update FIS experiment template",
			Description: "Update an existing FIS experiment template (requires --allow-writes).",
			ToolsetID:   toolsetID,
			InputSchema: schemaUpdateExperimentTemplate(),
			Safety:      mcp.SafetyWrite,
			Idempotent:  true,
			Handler:     svc.handleUpdateExperimentTemplate,
		},
	}
}

func (s *Service) handleListExperiments(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	client, region, err := s.fisClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error listing FIS experiments", err)
	}
	experiments, err := paginate.Collect(ctx, s.maxPages(), func(ctx context.Context, token *string) ([]types.ExperimentSummary, *string, error) {
		out, err := client.ListExperiments(ctx, &fis.ListExperimentsInput{NextToken: token})
		if err != nil {
			return nil, nil, err
		}
		return out.Experiments, out.NextToken, nil
	})
	if err != nil {
		return fail(ctx, req, "Error listing FIS experiments", err)
	}
	result := make(map[string]any, len(experiments))
	for _, item := range experiments {
		// Later entries overwrite earlier ones sharing a label.
		result[experimentLabel(item)] = summarizeExperiment(item)
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(result),
		Metadata: mcp.ToolMetadata{Region: region},
	}, nil
}

func (s *Service) handleGetExperiment(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	id, err := requireString(req.Arguments, "id")
	if err != nil {
		return errorResult(err), err
	}
	client, region, err := s.fisClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error getting experiment details", err)
	}
	out, err := client.GetExperiment(ctx, &fis.GetExperimentInput{Id: aws.String(id)})
	if err != nil {
		return fail(ctx, req, "Error getting experiment details", err)
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(render.Map(out.Experiment, render.LowerCamel)),
		Metadata: mcp.ToolMetadata{Region: region, Resources: []string{id}},
	}, nil
}

func (s *Service) handleListExperimentTemplates(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	client, region, err := s.fisClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error listing experiment templates", err)
	}
	templates, err := paginate.Collect(ctx, s.maxPages(), func(ctx context.Context, token *string) ([]types.ExperimentTemplateSummary, *string, error) {
		out, err := client.ListExperimentTemplates(ctx, &fis.ListExperimentTemplatesInput{NextToken: token})
		if err != nil {
			return nil, nil, err
		}
		return out.ExperimentTemplates, out.NextToken, nil
	})
	if err != nil {
		return fail(ctx, req, "Error listing experiment templates", err)
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(render.Slice(templates, render.LowerCamel)),
		Metadata: mcp.ToolMetadata{Region: region},
	}, nil
}

func (s *Service) handleGetExperimentTemplate(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	id, err := requireString(req.Arguments, "id")
	if err != nil {
		return errorResult(err), err
	}
	client, region, err := s.fisClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error getting experiment template", err)
	}
	out, err := client.GetExperimentTemplate(ctx, &fis.GetExperimentTemplateInput{Id: aws.String(id)})
	if err != nil {
		return fail(ctx, req, "Error getting experiment template", err)
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(render.Map(out, render.LowerCamel)),
		Metadata: mcp.ToolMetadata{Region: region, Resources: []string{id}},
	}, nil
}

func (s *Service) handleStartExperiment(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := s.ctx.Guard.Check(ctx, req.Log(), policy.CapabilityStartExperiment); err != nil {
		return errorResult(err), err
	}
	start, err := startRequestFromArgs(req.Arguments)
	if err != nil {
		return errorResult(err), err
	}
	client, region, err := s.fisClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error starting experiment", err)
	}
	input := start.Input()
	out, err := client.StartExperiment(ctx, input)
	if err != nil {
		return fail(ctx, req, "Error starting experiment", err)
	}
	var experimentID string
	if out.Experiment != nil {
		experimentID = aws.ToString(out.Experiment.Id)
	}
	req.Log().Info(ctx, fmt.Sprintf("Started experiment %q with ID: %s", start.Name, experimentID))
	return mcp.ToolResult{
		Data: map[string]any{
			"experiment_id": experimentID,
			"name":          start.Name,
			"status":        "started",
			"template_id":   start.TemplateID,
			"tags":          stringMapToAny(input.Tags),
			"message":       fmt.Sprintf("Experiment %q started successfully. Use get_experiment tool to check status.", start.Name),
		},
		Metadata: mcp.ToolMetadata{Region: region, Resources: nonEmpty(start.TemplateID, experimentID)},
	}, nil
}

func (s *Service) handleCreateExperimentTemplate(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := s.ctx.Guard.Check(ctx, req.Log(), policy.CapabilityCreateTemplate); err != nil {
		return errorResult(err), err
	}
	name, err := requireString(req.Arguments, "name")
	if err != nil {
		return errorResult(err), err
	}
	template, err := templateRequestFromArgs(req.Arguments, "report_configuration")
	if err != nil {
		return errorResult(err), err
	}
	template.ClientToken = toString(req.Arguments["clientToken"])
	template.Tags = NameTags(name, template.Tags)
	if err := template.ValidateCreate(); err != nil {
		return errorResult(err), err
	}
	input, err := template.CreateInput()
	if err != nil {
		return errorResult(err), err
	}
	client, region, err := s.fisClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error creating experiment template", err)
	}
	out, err := client.CreateExperimentTemplate(ctx, input)
	if err != nil {
		return fail(ctx, req, "Error creating experiment template", err)
	}
	templateID := "unknown"
	if out.ExperimentTemplate != nil && out.ExperimentTemplate.Id != nil {
		templateID = aws.ToString(out.ExperimentTemplate.Id)
	}
	req.Log().Info(ctx, fmt.Sprintf("Created experiment template %q with ID: %s", name, templateID))
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(render.Map(out, render.LowerCamel)),
		Metadata: mcp.ToolMetadata{Region: region, Resources: []string{templateID}},
	}, nil
}

func (s *Service) handleUpdateExperimentTemplate(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := s.ctx.Guard.Check(ctx, req.Log(), policy.CapabilityUpdateTemplate); err != nil {
		return errorResult(err), err
	}
	template, err := templateRequestFromArgs(req.Arguments, "experiment_report_configuration")
	if err != nil {
		return errorResult(err), err
	}
	template.ID = toString(req.Arguments["id"])
	if err := template.ValidateUpdate(); err != nil {
		return errorResult(err), err
	}
	input, err := template.UpdateInput()
	if err != nil {
		return errorResult(err), err
	}
	client, region, err := s.fisClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error updating experiment template", err)
	}
	out, err := client.UpdateExperimentTemplate(ctx, input)
	if err != nil {
		return fail(ctx, req, "Error updating experiment template", err)
	}
	req.Log().Info(ctx, "Successfully updated experiment template: "+template.ID)
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(render.Map(out, render.LowerCamel)),
		Metadata: mcp.ToolMetadata{Region: region, Resources: []string{template.ID}},
	}, nil
}

func (s *Service) maxPages() int {
	if s.ctx.Config == nil {
		return 0
	}
	return s.ctx.Config.Pagination.MaxPages
}

func experimentLabel(item types.ExperimentSummary) string {
	if name, ok := item.Tags["Name"]; ok {
		return name
	}
	if item.Id != nil {
		return aws.ToString(item.Id)
	}
	return "Unknown"
}

func summarizeExperiment(item types.ExperimentSummary) map[string]any {
	return map[string]any{
		"id":                   aws.ToString(item.Id),
		"arn":                  aws.ToString(item.Arn),
		"experimentTemplateId": aws.ToString(item.ExperimentTemplateId),
		"state":                render.Value(item.State, render.LowerCamel),
		"experimentOptions":    render.Value(item.ExperimentOptions, render.LowerCamel),
	}
}

func startRequestFromArgs(args map[string]any) (StartExperimentRequest, error) {
	tags, err := toStringMap(args["tags"])
	if err != nil {
		return StartExperimentRequest{}, fmt.Errorf("invalid tags: %w", err)
	}
	start := StartExperimentRequest{
		TemplateID:          toString(args["id"]),
		Name:                toString(args["name"]),
		Tags:                tags,
		ActionsMode:         toString(args["action"]),
		MaxTimeoutSeconds:   toInt(args["max_timeout_seconds"], DefaultMaxTimeoutSeconds),
		InitialPollInterval: toInt(args["initial_poll_interval"], DefaultInitialPollInterval),
		MaxPollInterval:     toInt(args["max_poll_interval"], DefaultMaxPollInterval),
	}
	if start.ActionsMode == "" {
		start.ActionsMode = ActionsModeRunAll
	}
	return start, start.Validate()
}

// templateRequestFromArgs decodes the template fields shared by create and
// update. Absent arguments stay nil.
func templateRequestFromArgs(args map[string]any, reportKey string) (ExperimentTemplateRequest, error) {
	var template ExperimentTemplateRequest
	if value, ok := args["description"]; ok && value != nil {
		template.Description = aws.String(toString(value))
	}
	if value, ok := args["role_arn"]; ok && value != nil {
		template.RoleArn = aws.String(toString(value))
	}
	tags, err := toStringMap(args["tags"])
	if err != nil {
		return template, fmt.Errorf("invalid tags: %w", err)
	}
	template.Tags = tags
	fields := []struct {
		key    string
		target any
	}{
		{"stop_conditions", &template.StopConditions},
		{"targets", &template.Targets},
		{"actions", &template.Actions},
		{"log_configuration", &template.LogConfiguration},
		{"experiment_options", &template.ExperimentOptions},
		{reportKey, &template.ReportConfiguration},
	}
	for _, field := range fields {
		value, ok := args[field.key]
		if !ok || value == nil {
			continue
		}
		if err := decodeInto(value, field.target); err != nil {
			return template, fmt.Errorf("invalid %s: %w", field.key, err)
		}
	}
	return template, nil
}

package awscfn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"fismcp/internal/mcp"
	"fismcp/internal/paginate"
	"fismcp/internal/render"
)

type API interface {
	ListStacks(ctx context.Context, params *cloudformation.ListStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStacksOutput, error)
	ListStackResources(ctx context.Context, params *cloudformation.ListStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error)
}

var _ API = (*cloudformation.Client)(nil)

type ClientFunc func(context.Context) (API, string, error)

type Service struct {
	ctx       mcp.ToolsetContext
	cfnClient ClientFunc
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, cfnClient ClientFunc) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, cfnClient: cfnClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "ListCloudFormationStacks",
			Title:       "List CloudFormation stacks",
			Description: "List all CloudFormation stacks in the region.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListStacks(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListStacks,
		},
		{
			Name:        "GetStackResources",
			Title:       "Get CloudFormation stack resources",
			Description: "List the resources of a CloudFormation stack.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetStackResources(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetStackResources,
		},
	}
}

func (s *Service) handleListStacks(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	client, region, err := s.cfnClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error listing CloudFormation stacks", err)
	}
	stacks, err := paginate.Collect(ctx, s.maxPages(), func(ctx context.Context, token *string) ([]types.StackSummary, *string, error) {
		out, err := client.ListStacks(ctx, &cloudformation.ListStacksInput{NextToken: token})
		if err != nil {
			return nil, nil, err
		}
		return out.StackSummaries, out.NextToken, nil
	})
	if err != nil {
		return fail(ctx, req, "Error listing CloudFormation stacks", err)
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(map[string]any{"stacks": render.Slice(stacks, render.Pascal)}),
		Metadata: mcp.ToolMetadata{Region: region},
	}, nil
}

func (s *Service) handleGetStackResources(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	stackName := strings.TrimSpace(toString(req.Arguments["stack_name"]))
	if stackName == "" {
		err := errors.New("stack_name is required")
		return errorResult(err), err
	}
	client, region, err := s.cfnClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error getting stack resources", err)
	}
	resources, err := paginate.Collect(ctx, s.maxPages(), func(ctx context.Context, token *string) ([]types.StackResourceSummary, *string, error) {
		out, err := client.ListStackResources(ctx, &cloudformation.ListStackResourcesInput{
			StackName: aws.String(stackName),
			NextToken: token,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.StackResourceSummaries, out.NextToken, nil
	})
	if err != nil {
		return fail(ctx, req, "Error getting stack resources", err)
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(map[string]any{"resources": render.Slice(resources, render.Pascal)}),
		Metadata: mcp.ToolMetadata{Region: region, Resources: []string{stackName}},
	}, nil
}

func (s *Service) maxPages() int {
	if s.ctx.Config == nil {
		return 0
	}
	return s.ctx.Config.Pagination.MaxPages
}

func fail(ctx context.Context, req mcp.ToolRequest, doing string, err error) (mcp.ToolResult, error) {
	req.Log().Error(ctx, doing+": "+err.Error())
	return errorResult(err), err
}

func errorResult(err error) mcp.ToolResult {
	return mcp.ToolResult{Data: map[string]any{"error": err.Error()}}
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

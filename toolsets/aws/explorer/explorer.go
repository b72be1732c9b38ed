package awsexplorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2/types"

	"fismcp/internal/mcp"
	"fismcp/internal/paginate"
	"fismcp/internal/policy"
	"fismcp/internal/render"
)

const (
	DefaultSearchMaxResults = 100
	MaxSearchResults        = 1000
	viewClientTokenPrefix   = "create-view-"
)

type API interface {
	ListViews(ctx context.Context, params *resourceexplorer2.ListViewsInput, optFns ...func(*resourceexplorer2.Options)) (*resourceexplorer2.ListViewsOutput, error)
	Search(ctx context.Context, params *resourceexplorer2.SearchInput, optFns ...func(*resourceexplorer2.Options)) (*resourceexplorer2.SearchOutput, error)
	CreateView(ctx context.Context, params *resourceexplorer2.CreateViewInput, optFns ...func(*resourceexplorer2.Options)) (*resourceexplorer2.CreateViewOutput, error)
}

var _ API = (*resourceexplorer2.Client)(nil)

type ClientFunc func(context.Context) (API, string, error)

type Service struct {
	ctx            mcp.ToolsetContext
	explorerClient ClientFunc
	toolsetID      string
	now            func() time.Time
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, explorerClient ClientFunc) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, explorerClient: explorerClient, toolsetID: toolsetID, now: time.Now}
	return []mcp.ToolSpec{
		{
			Name:        "ListResourceExplorerViews",
			Title:       "List Resource Explorer views",
			Description: "List the ARNs of all Resource Explorer views.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListViews(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListViews,
		},
		{
			Name:        "SearchResources",
			Title:       "Search resources",
			Description: "Search AWS resources through a Resource Explorer view. Returns one page; pass next_token to continue.",
			ToolsetID:   toolsetID,
			InputSchema: schemaSearchResources(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleSearchResources,
		},
		{
			Name:        "CreateResourceExplorerView",
			Title:       "Create Resource Explorer view",
			Description: "Create a Resource Explorer view that filters resources for experiment targeting (requires --allow-writes).",
			ToolsetID:   toolsetID,
			InputSchema: schemaCreateView(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateView,
		},
	}
}

// ViewRequest is the validated input of CreateResourceExplorerView.
type ViewRequest struct {
	Query       string
	ViewName    string
	Name        string
	Tags        map[string]string
	Scope       string
	ClientToken string
}

func (r ViewRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query is required")
	}
	if strings.TrimSpace(r.ViewName) == "" {
		return errors.New("view_name is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// Input builds the CreateView call. A missing client token becomes
// "create-view-<unix seconds>" at now.
func (r ViewRequest) Input(now time.Time) *resourceexplorer2.CreateViewInput {
	tags := map[string]string{"Name": r.Name}
	for k, v := range r.Tags {
		tags[k] = v
	}
	token := r.ClientToken
	if token == "" {
		token = fmt.Sprintf("%s%d", viewClientTokenPrefix, now.Unix())
	}
	input := &resourceexplorer2.CreateViewInput{
		ViewName:    aws.String(r.ViewName),
		ClientToken: aws.String(token),
		Filters:     &types.SearchFilter{FilterString: aws.String(r.Query)},
		Tags:        tags,
	}
	if r.Scope != "" {
		input.Scope = aws.String(r.Scope)
	}
	return input
}

func (s *Service) handleListViews(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	client, region, err := s.explorerClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error listing Resource Explorer views", err)
	}
	views, err := paginate.Collect(ctx, s.maxPages(), func(ctx context.Context, token *string) ([]string, *string, error) {
		out, err := client.ListViews(ctx, &resourceexplorer2.ListViewsInput{NextToken: token})
		if err != nil {
			return nil, nil, err
		}
		return out.Views, out.NextToken, nil
	})
	if err != nil {
		return fail(ctx, req, "Error listing Resource Explorer views", err)
	}
	data := make([]any, 0, len(views))
	for _, view := range views {
		data = append(data, view)
	}
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: region}}, nil
}

func (s *Service) handleSearchResources(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	queryString := strings.TrimSpace(toString(req.Arguments["query_string"]))
	viewArn := strings.TrimSpace(toString(req.Arguments["view_arn"]))
	if queryString == "" || viewArn == "" {
		err := errors.New("query_string and view_arn are required")
		return errorResult(err), err
	}
	maxResults := toInt(req.Arguments["max_results"], DefaultSearchMaxResults)
	if maxResults <= 0 || maxResults > MaxSearchResults {
		err := fmt.Errorf("max_results must be between 1 and %d", MaxSearchResults)
		return errorResult(err), err
	}
	nextToken := strings.TrimSpace(toString(req.Arguments["next_token"]))

	client, region, err := s.explorerClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error searching resources", err)
	}
	input := &resourceexplorer2.SearchInput{
		QueryString: aws.String(queryString),
		ViewArn:     aws.String(viewArn),
		MaxResults:  aws.Int32(int32(maxResults)),
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}
	out, err := client.Search(ctx, input)
	if err != nil {
		return fail(ctx, req, "Error searching resources", err)
	}
	resources := render.Slice(out.Resources, render.Pascal)
	result := map[string]any{
		"resources":    resources,
		"query_string": queryString,
		"view_arn":     viewArn,
		"count":        len(resources),
	}
	if token := aws.ToString(out.NextToken); token != "" {
		result["next_token"] = token
	}
	req.Log().Info(ctx, fmt.Sprintf("Found %d resources matching query: %s", len(resources), queryString))
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(result),
		Metadata: mcp.ToolMetadata{Region: region, Resources: []string{viewArn}},
	}, nil
}

func (s *Service) handleCreateView(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := s.ctx.Guard.Check(ctx, req.Log(), policy.CapabilityCreateView); err != nil {
		return errorResult(err), err
	}
	tags, err := toStringMap(req.Arguments["tags"])
	if err != nil {
		err = fmt.Errorf("invalid tags: %w", err)
		return errorResult(err), err
	}
	view := ViewRequest{
		Query:       toString(req.Arguments["query"]),
		ViewName:    toString(req.Arguments["view_name"]),
		Name:        toString(req.Arguments["name"]),
		Tags:        tags,
		Scope:       strings.TrimSpace(toString(req.Arguments["scope"])),
		ClientToken: strings.TrimSpace(toString(req.Arguments["client_token"])),
	}
	if err := view.Validate(); err != nil {
		return errorResult(err), err
	}
	client, region, err := s.explorerClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error creating Resource Explorer view", err)
	}
	out, err := client.CreateView(ctx, view.Input(s.clock()))
	if err != nil {
		return fail(ctx, req, "Error creating Resource Explorer view", err)
	}
	var viewArn string
	if out.View != nil {
		viewArn = aws.ToString(out.View.ViewArn)
	}
	req.Log().Info(ctx, fmt.Sprintf("Created Resource Explorer view %q with ARN: %s", view.ViewName, viewArn))
	var resources []string
	if viewArn != "" {
		resources = []string{viewArn}
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(render.Map(out, render.Pascal)),
		Metadata: mcp.ToolMetadata{Region: region, Resources: resources},
	}, nil
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
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

func toInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func toStringMap(value any) (map[string]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("value for %q must be a string", key)
			}
			out[key] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an object of strings, got %T", value)
	}
}

package awsconfigsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/configservice/types"

	"fismcp/internal/mcp"
	"fismcp/internal/render"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	OrderReverse = "Reverse"
	OrderForward = "Forward"

	noItemsMessage = "No configuration items found for the specified resource"
)

type API interface {
	GetResourceConfigHistory(ctx context.Context, params *configservice.GetResourceConfigHistoryInput, optFns ...func(*configservice.Options)) (*configservice.GetResourceConfigHistoryOutput, error)
}

var _ API = (*configservice.Client)(nil)

type ClientFunc func(context.Context) (API, string, error)

type Service struct {
	ctx          mcp.ToolsetContext
	configClient ClientFunc
	toolsetID    string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, configClient ClientFunc) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, configClient: configClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "DiscoverResourceRelationships",
			Title:       "Discover resource relationships",
			Description: "Discover the relationships of a resource from its AWS Config configuration history.",
			ToolsetID:   toolsetID,
			InputSchema: schemaDiscoverRelationships(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleDiscoverRelationships,
		},
	}
}

func (s *Service) handleDiscoverRelationships(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	resourceType := strings.TrimSpace(toString(req.Arguments["resource_type"]))
	resourceID := strings.TrimSpace(toString(req.Arguments["resource_id"]))
	if resourceType == "" || resourceID == "" {
		err := errors.New("resource_type and resource_id are required")
		return errorResult(err), err
	}
	limit := toInt(req.Arguments["limit"], DefaultLimit)
	if limit < 0 || limit > MaxLimit {
		err := fmt.Errorf("limit must be between 0 and %d", MaxLimit)
		return errorResult(err), err
	}
	order := strings.TrimSpace(toString(req.Arguments["chronological_order"]))
	if order == "" {
		order = OrderReverse
	}
	if order != OrderReverse && order != OrderForward {
		err := fmt.Errorf("invalid chronological_order %q: expected Reverse or Forward", order)
		return errorResult(err), err
	}

	client, region, err := s.configClient(ctx)
	if err != nil {
		return fail(ctx, req, "Error discovering resource relationships", err)
	}
	input := &configservice.GetResourceConfigHistoryInput{
		ResourceType:       types.ResourceType(resourceType),
		ResourceId:         aws.String(resourceID),
		ChronologicalOrder: types.ChronologicalOrder(order),
	}
	if limit > 0 {
		input.Limit = int32(limit)
	}
	out, err := client.GetResourceConfigHistory(ctx, input)
	if err != nil {
		return fail(ctx, req, "Error discovering resource relationships", err)
	}
	report := BuildReport(resourceType, resourceID, out.ConfigurationItems)
	if len(out.ConfigurationItems) > 0 {
		req.Log().Info(ctx, fmt.Sprintf("Found %d relationships for %s %s", len(out.ConfigurationItems[0].Relationships), resourceType, resourceID))
	}
	return mcp.ToolResult{
		Data:     s.ctx.Redactor.RedactValue(report),
		Metadata: mcp.ToolMetadata{Region: region, Resources: []string{resourceID}},
	}, nil
}

// BuildReport summarizes configuration history. The first item, the most
// recent one under Reverse order, supplies the current relationship set.
func BuildReport(resourceType, resourceID string, items []types.ConfigurationItem) map[string]any {
	report := map[string]any{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	}
	if len(items) == 0 {
		report["relationships"] = []any{}
		report["configuration_items"] = []any{}
		report["message"] = noItemsMessage
		return report
	}
	current := items[0].Relationships
	summaries := make([]any, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, summarizeItem(item))
	}
	report["relationships"] = render.Slice(current, render.LowerCamel)
	report["configuration_items"] = summaries
	report["summary"] = map[string]any{
		"total_relationships":       len(current),
		"total_configuration_items": len(items),
		"relationship_types":        relationshipTypes(current),
	}
	return report
}

func summarizeItem(item types.ConfigurationItem) map[string]any {
	tags := make(map[string]any, len(item.Tags))
	for k, v := range item.Tags {
		tags[k] = v
	}
	return map[string]any{
		"configuration_item_capture_time": formatTime(item.ConfigurationItemCaptureTime),
		"configuration_state_id":          aws.ToString(item.ConfigurationStateId),
		"aws_region":                      aws.ToString(item.AwsRegion),
		"availability_zone":               aws.ToString(item.AvailabilityZone),
		"resource_creation_time":          formatTime(item.ResourceCreationTime),
		"tags":                            tags,
		"relationships_count":             len(item.Relationships),
	}
}

func relationshipTypes(relationships []types.Relationship) []any {
	seen := map[string]struct{}{}
	for _, rel := range relationships {
		seen[aws.ToString(rel.RelationshipName)] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, name)
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
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

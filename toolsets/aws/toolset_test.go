package aws

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/google/go-cmp/cmp"

	awsclient "fismcp/internal/aws"
	"fismcp/internal/config"
	"fismcp/internal/mcp"
	"fismcp/internal/policy"
)

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Info(context.Context, string) {}
func (l *recordingLogger) Error(_ context.Context, msg string) {
	l.errors = append(l.errors, msg)
}

func TestToolsetInitRequiresRegistry(t *testing.T) {
	if err := New().Init(mcp.ToolsetContext{}); err == nil {
		t.Fatalf("expected error for missing client registry")
	}
}

func TestToolsetRegistersCatalog(t *testing.T) {
	toolset := New()
	cfg := config.DefaultConfig()
	if err := toolset.Init(mcp.ToolsetContext{Config: &cfg, AWS: awsclient.NewRegistry(nil)}); err != nil {
		t.Fatalf("init: %v", err)
	}
	reg := mcp.NewRegistry()
	if err := toolset.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	want := []string{
		"CreateFISExperimentTemplate",
		"CreateResourceExplorerView",
		"DiscoverResourceRelationships",
		"GetFISExperiment",
		"GetFISExperimentTemplate",
		"GetStackResources",
		"ListCloudFormationStacks",
		"ListFISExperimentTemplates",
		"ListFISExperiments",
		"ListResourceExplorerViews",
		"SearchResources",
		"StartFISExperiment",
		"UpdateFISExperimentTemplate",
	}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("unexpected tool names (-want +got):\n%s", diff)
	}
	resources := toolset.Resources()
	if len(resources) != 1 || resources[0].URI != "fis://templates/sample" {
		t.Fatalf("unexpected resources: %#v", resources)
	}
}

func TestToolsFailWhenClientsNotInitialized(t *testing.T) {
	toolset := New()
	cfg := config.DefaultConfig()
	if err := toolset.Init(mcp.ToolsetContext{Config: &cfg, AWS: awsclient.NewRegistry(nil), Guard: policy.NewGuard(true)}); err != nil {
		t.Fatalf("init: %v", err)
	}
	reg := mcp.NewRegistry()
	if err := toolset.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	cases := map[string]string{
		"ListFISExperiments":            "AWS FIS client not initialized",
		"ListCloudFormationStacks":      "AWS CloudFormation client not initialized",
		"ListResourceExplorerViews":     "AWS Resource Explorer client not initialized",
		"DiscoverResourceRelationships": "AWS Config client not initialized",
	}
	args := map[string]any{"resource_type": "AWS::EC2::Instance", "resource_id": "i-1"}
	for name, text := range cases {
		spec, ok := reg.Get(name)
		if !ok {
			t.Fatalf("missing tool %s", name)
		}
		logger := &recordingLogger{}
		_, err := spec.Handler(context.Background(), mcp.ToolRequest{Arguments: args, Logger: logger})
		if !errors.Is(err, awsclient.ErrClientNotInitialized) || !strings.Contains(err.Error(), text) {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if len(logger.errors) != 1 {
			t.Fatalf("%s: expected one error log, got %#v", name, logger.errors)
		}
	}
}

func TestClientAccessorsShareSnapshot(t *testing.T) {
	registry := awsclient.NewRegistry(nil)
	registry.Set(awsclient.NewClients(sdkaws.Config{
		Region:      "eu-west-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	}, ""))
	toolset := New()
	if err := toolset.Init(mcp.ToolsetContext{AWS: registry}); err != nil {
		t.Fatalf("init: %v", err)
	}
	client, region, err := toolset.fisClient(context.Background())
	if err != nil || client == nil || region != "eu-west-1" {
		t.Fatalf("fis client: %v %v %q", client, err, region)
	}
	if _, region, err := toolset.configClient(context.Background()); err != nil || region != "eu-west-1" {
		t.Fatalf("config client: %v %q", err, region)
	}
	if _, _, err := toolset.cfnClient(context.Background()); err != nil {
		t.Fatalf("cfn client: %v", err)
	}
	if _, _, err := toolset.explorerClient(context.Background()); err != nil {
		t.Fatalf("explorer client: %v", err)
	}
}

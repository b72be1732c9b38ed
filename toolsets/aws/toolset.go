package aws

import (
	"context"
	"errors"
	"fmt"

	"fismcp/internal/mcp"
	awscfn "fismcp/toolsets/aws/cfn"
	awsconfigsvc "fismcp/toolsets/aws/configsvc"
	awsexplorer "fismcp/toolsets/aws/explorer"
	awsfis "fismcp/toolsets/aws/fis"
)

const ToolsetID = "aws"

// Toolset serves the FIS, CloudFormation, Resource Explorer and AWS Config
// tools from the shared client registry.
type Toolset struct {
	ctx mcp.ToolsetContext
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset(ToolsetID, func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return ToolsetID
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	if ctx.AWS == nil {
		return errors.New("missing AWS client registry")
	}
	t.ctx = ctx
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	var specs []mcp.ToolSpec
	specs = append(specs, awsfis.ToolSpecs(t.ctx, t.ID(), t.fisClient)...)
	specs = append(specs, awscfn.ToolSpecs(t.ctx, t.ID(), t.cfnClient)...)
	specs = append(specs, awsexplorer.ToolSpecs(t.ctx, t.ID(), t.explorerClient)...)
	specs = append(specs, awsconfigsvc.ToolSpecs(t.ctx, t.ID(), t.configClient)...)
	for _, tool := range specs {
		tool = t.wrapListCache(tool)
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func (t *Toolset) Resources() []mcp.ResourceSpec {
	return awsfis.Resources()
}

// The accessors return an untyped nil API on error so callers never hold a
// typed nil client.

func (t *Toolset) fisClient(context.Context) (awsfis.API, string, error) {
	client, region, err := t.ctx.AWS.FIS()
	if err != nil {
		return nil, "", err
	}
	return client, region, nil
}

func (t *Toolset) cfnClient(context.Context) (awscfn.API, string, error) {
	client, region, err := t.ctx.AWS.CloudFormation()
	if err != nil {
		return nil, "", err
	}
	return client, region, nil
}

func (t *Toolset) explorerClient(context.Context) (awsexplorer.API, string, error) {
	client, region, err := t.ctx.AWS.ResourceExplorer()
	if err != nil {
		return nil, "", err
	}
	return client, region, nil
}

func (t *Toolset) configClient(context.Context) (awsconfigsvc.API, string, error) {
	client, region, err := t.ctx.AWS.Config()
	if err != nil {
		return nil, "", err
	}
	return client, region, nil
}

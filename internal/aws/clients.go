package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/fis"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/charmbracelet/log"
)

var ErrClientNotInitialized = errors.New("client not initialized")

// ClientNotInitializedError is returned by the registry accessors when no
// client set has been installed. It matches ErrClientNotInitialized.
type ClientNotInitializedError struct {
	Service string
}

func (e *ClientNotInitializedError) Error() string {
	return fmt.Sprintf("AWS %s client not initialized. Please ensure the server is properly configured.", e.Service)
}

func (e *ClientNotInitializedError) Is(target error) bool {
	return target == ErrClientNotInitialized
}

// Clients is one immutable set of service clients sharing a region and
// credential profile.
type Clients struct {
	Region           string
	Profile          string
	FIS              *fis.Client
	S3               *s3.Client
	ResourceExplorer *resourceexplorer2.Client
	CloudFormation   *cloudformation.Client
	Config           *configservice.Client
	STS              *sts.Client
}

func NewClients(cfg sdkaws.Config, profile string) *Clients {
	return &Clients{
		Region:           strings.TrimSpace(cfg.Region),
		Profile:          profile,
		FIS:              fis.NewFromConfig(cfg),
		S3:               s3.NewFromConfig(cfg),
		ResourceExplorer: resourceexplorer2.NewFromConfig(cfg),
		CloudFormation:   cloudformation.NewFromConfig(cfg),
		Config:           configservice.NewFromConfig(cfg),
		STS:              sts.NewFromConfig(cfg),
	}
}

type ConfigLoader func(ctx context.Context, region, profile string) (sdkaws.Config, error)

// Registry holds the active client set. Re-initialization builds a complete
// new set and swaps it in, so callers never observe a mix of regions.
type Registry struct {
	load    ConfigLoader
	current atomic.Pointer[Clients]
}

func NewRegistry(load ConfigLoader) *Registry {
	if load == nil {
		load = LoadConfig
	}
	return &Registry{load: load}
}

func (r *Registry) Initialize(ctx context.Context, region, profile string) error {
	if r == nil {
		return errors.New("client registry is nil")
	}
	cfg, err := r.load(ctx, region, profile)
	if err != nil {
		return fmt.Errorf("initialize AWS clients: %w", err)
	}
	r.current.Store(NewClients(cfg, ResolveProfile(profile)))
	return nil
}

// InitializeDefault initializes from the environment and only logs failures;
// tools then fail individually with ClientNotInitializedError.
func (r *Registry) InitializeDefault(ctx context.Context, logger *log.Logger) {
	if err := r.Initialize(ctx, "", ""); err != nil {
		if logger != nil {
			logger.Error("error initializing default AWS clients", "err", err)
		}
		return
	}
	if logger != nil {
		logger.Info("AWS clients initialized with default configuration", "region", r.Current().Region)
	}
}

func (r *Registry) Set(clients *Clients) {
	r.current.Store(clients)
}

func (r *Registry) Current() *Clients {
	if r == nil {
		return nil
	}
	return r.current.Load()
}

// Each accessor reads one snapshot, so the client and the returned region
// always belong to the same client set.

func (r *Registry) FIS() (*fis.Client, string, error) {
	clients := r.Current()
	if clients == nil || clients.FIS == nil {
		return nil, "", &ClientNotInitializedError{Service: "FIS"}
	}
	return clients.FIS, clients.Region, nil
}

func (r *Registry) ResourceExplorer() (*resourceexplorer2.Client, string, error) {
	clients := r.Current()
	if clients == nil || clients.ResourceExplorer == nil {
		return nil, "", &ClientNotInitializedError{Service: "Resource Explorer"}
	}
	return clients.ResourceExplorer, clients.Region, nil
}

func (r *Registry) CloudFormation() (*cloudformation.Client, string, error) {
	clients := r.Current()
	if clients == nil || clients.CloudFormation == nil {
		return nil, "", &ClientNotInitializedError{Service: "CloudFormation"}
	}
	return clients.CloudFormation, clients.Region, nil
}

func (r *Registry) Config() (*configservice.Client, string, error) {
	clients := r.Current()
	if clients == nil || clients.Config == nil {
		return nil, "", &ClientNotInitializedError{Service: "Config"}
	}
	return clients.Config, clients.Region, nil
}

type Identity struct {
	Account string
	Arn     string
}

func (r *Registry) CallerIdentity(ctx context.Context) (Identity, error) {
	clients := r.Current()
	if clients == nil || clients.STS == nil {
		return Identity{}, &ClientNotInitializedError{Service: "STS"}
	}
	out, err := clients.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, err
	}
	return Identity{Account: sdkaws.ToString(out.Account), Arn: sdkaws.ToString(out.Arn)}, nil
}

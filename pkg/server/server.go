package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"fismcp/internal/audit"
	awsclient "fismcp/internal/aws"
	"fismcp/internal/cache"
	"fismcp/internal/config"
	"fismcp/internal/logging"
	fmcp "fismcp/internal/mcp"
	"fismcp/internal/metrics"
	"fismcp/internal/policy"
	"fismcp/internal/redact"
)

const (
	ConfigEnv = "FISMCP_CONFIG"

	identityTimeout = 5 * time.Second
)

const instructions = `# FIS Chaos Engineering MCP

This server provides tools for creating, managing, and executing AWS Fault Injection Service (FIS) experiments and for discovering the resources they target.

## Available Tools

### FIS Experiment Management
- **ListFISExperiments**: List all FIS experiments
- **GetFISExperiment**: Get details about a specific experiment
- **StartFISExperiment**: Start a FIS experiment from a template
- **ListFISExperimentTemplates**: List available experiment templates
- **GetFISExperimentTemplate**: Get details about a specific experiment template

### Experiment Template Management
- **CreateFISExperimentTemplate**: Create a new experiment template
- **UpdateFISExperimentTemplate**: Update an existing experiment template

### Resource Discovery
- **ListCloudFormationStacks**: List CloudFormation stacks
- **GetStackResources**: Get resources from a specific stack
- **ListResourceExplorerViews**: List Resource Explorer views
- **SearchResources**: Search for resources using Resource Explorer
- **CreateResourceExplorerView**: Create a new Resource Explorer view
- **DiscoverResourceRelationships**: Discover relationships between resources

Write tools are rejected unless the server runs with --allow-writes.

## Logging
Tool progress and error messages are sent as MCP log notifications (logger "fismcp") only after the client sets a level with logging/setLevel. They are always written to the server's stderr log.

## Service Availability
AWS FIS is available in select AWS regions. The server uses the configured region for all operations.
`

type Options struct {
	ConfigPath  string
	ConfigDir   string
	EnvFiles    []string
	Region      string
	Profile     string
	AllowWrites bool
	Toolsets    []string
	LogLevel    string
	Version     string
	Stderr      io.Writer
	// Transport defaults to stdio.
	Transport sdkmcp.Transport
	// LoadAWSConfig replaces SDK configuration loading.
	LoadAWSConfig awsclient.ConfigLoader
}

// toolRuntime is everything a serving process shares across tool calls.
type toolRuntime struct {
	toolCtx   fmcp.ToolContext
	registry  *fmcp.ToolRegistry
	resources []fmcp.ResourceSpec
}

// process holds the startup state shared by serving and embedding.
type process struct {
	cfg        config.Config
	configPath string
	overrides  config.Overrides
	logger     *log.Logger
	clients    *awsclient.Registry
	errOut     io.Writer
}

func Run(ctx context.Context, opts Options) error {
	p, err := prepare(ctx, opts)
	if err != nil {
		return err
	}
	logger := p.logger

	recorder, err := metrics.New(ctx, p.cfg.Metrics, opts.Version)
	if err != nil {
		return fmt.Errorf("metrics init failed: %w", err)
	}
	defer func() {
		if err := recorder.Close(context.Background()); err != nil {
			logger.Warn("metrics shutdown failed", "err", err)
		}
	}()

	rt, err := buildRuntime(p.cfg, p.clients, recorder, logger, p.errOut)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	server := sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "fismcp", Version: opts.Version},
		&sdkmcp.ServerOptions{Instructions: instructions},
	)
	if _, err := fmcp.RegisterSDKTools(server, rt.registry, rt.toolCtx); err != nil {
		return fmt.Errorf("tool registration failed: %w", err)
	}
	if err := fmcp.RegisterSDKResources(server, rt.resources); err != nil {
		return fmt.Errorf("resource registration failed: %w", err)
	}

	reloadCh := make(chan os.Signal, 1)
	notifyReload(reloadCh)
	defer signal.Stop(reloadCh)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchReload(runCtx, reloadCh, func() {
		reload(runCtx, p.configPath, opts.ConfigDir, p.overrides, p.clients, rt.toolCtx.Cache, logger)
	})

	transport := opts.Transport
	if transport == nil {
		transport = &sdkmcp.StdioTransport{}
	}
	if err := server.Run(runCtx, transport); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Embed builds the tool catalog without serving it. Metrics are not
// exported and reload signals are not watched.
func Embed(ctx context.Context, opts Options) (*fmcp.ToolInvoker, []fmcp.ResourceSpec, error) {
	p, err := prepare(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	rt, err := buildRuntime(p.cfg, p.clients, nil, p.logger, p.errOut)
	if err != nil {
		return nil, nil, fmt.Errorf("init failed: %w", err)
	}
	return rt.toolCtx.Invoker, rt.resources, nil
}

func prepare(ctx context.Context, opts Options) (process, error) {
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return process{}, fmt.Errorf("env load failed: %w", err)
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = os.Getenv(ConfigEnv)
	}
	overrides := buildOverrides(opts)
	cfg, err := config.Load(configPath, opts.ConfigDir, overrides)
	if err != nil {
		return process{}, fmt.Errorf("config load failed: %w", err)
	}

	logger := logging.New(errOut, logging.ResolveLevel(cfg.LogLevel))
	if opts.Version != "" {
		awsclient.AppID = "fismcp/" + opts.Version
	}
	logger.Info("fismcp starting",
		"profile", displayProfile(cfg.Profile),
		"region", awsclient.ResolveRegion(cfg.Region),
		"allow_writes", cfg.AllowWrites,
	)

	clients := awsclient.NewRegistry(opts.LoadAWSConfig)
	if err := initializeClients(ctx, clients, cfg, logger); err != nil {
		return process{}, fmt.Errorf("init failed: %w", err)
	}
	logIdentity(ctx, clients, logger)
	return process{
		cfg:        cfg,
		configPath: configPath,
		overrides:  overrides,
		logger:     logger,
		clients:    clients,
		errOut:     errOut,
	}, nil
}

func buildOverrides(opts Options) config.Overrides {
	overrides := config.Overrides{}
	if opts.Region != "" {
		overrides.Region = &opts.Region
	}
	if opts.Profile != "" {
		overrides.Profile = &opts.Profile
	}
	if opts.AllowWrites {
		overrides.AllowWrites = &opts.AllowWrites
	}
	if len(opts.Toolsets) > 0 {
		overrides.Toolsets = &opts.Toolsets
	}
	if opts.LogLevel != "" {
		overrides.LogLevel = &opts.LogLevel
	}
	return overrides
}

// initializeClients builds the client set. An explicit region or profile must
// load; environment defaults only log failures so tools can fail one by one.
func initializeClients(ctx context.Context, clients *awsclient.Registry, cfg config.Config, logger *log.Logger) error {
	if cfg.Region == "" && cfg.Profile == "" {
		clients.InitializeDefault(ctx, logger)
		return nil
	}
	if err := clients.Initialize(ctx, cfg.Region, cfg.Profile); err != nil {
		return err
	}
	logger.Info("AWS clients initialized", "region", clients.Current().Region, "profile", displayProfile(cfg.Profile))
	return nil
}

func logIdentity(ctx context.Context, clients *awsclient.Registry, logger *log.Logger) {
	if clients.Current() == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()
	identity, err := clients.CallerIdentity(ctx)
	if err != nil {
		logger.Warn("unable to resolve AWS caller identity", "err", err)
		return
	}
	logger.Info("AWS caller identity", "account", identity.Account, "arn", identity.Arn)
}

func buildRuntime(cfg config.Config, clients *awsclient.Registry, recorder *metrics.Recorder, logger *log.Logger, errOut io.Writer) (toolRuntime, error) {
	reg := fmcp.NewRegistry()
	toolCtx := fmcp.ToolContext{
		Config:   &cfg,
		AWS:      clients,
		Guard:    policy.NewGuard(cfg.AllowWrites),
		Redactor: redact.New(),
		Audit:    audit.NewLogger(errOut),
		Cache:    cache.NewStore(),
		Metrics:  recorder,
		Logger:   logger,
		Registry: reg,
	}
	toolCtx.Invoker = fmcp.NewToolInvoker(reg, toolCtx)

	toolsets, err := fmcp.NewToolsets(cfg.Toolsets)
	if err != nil {
		return toolRuntime{}, err
	}
	var resources []fmcp.ResourceSpec
	for _, toolset := range toolsets {
		if err := toolset.Init(fmcp.ToolsetContext(toolCtx)); err != nil {
			return toolRuntime{}, fmt.Errorf("toolset %s: %w", toolset.ID(), err)
		}
		if err := toolset.Register(reg); err != nil {
			return toolRuntime{}, fmt.Errorf("toolset %s: %w", toolset.ID(), err)
		}
		if provider, ok := toolset.(fmcp.ResourceProvider); ok {
			resources = append(resources, provider.Resources()...)
		}
	}
	return toolRuntime{toolCtx: toolCtx, registry: reg, resources: resources}, nil
}

func watchReload(ctx context.Context, ch <-chan os.Signal, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			fn()
		}
	}
}

// reload re-reads configuration and swaps in a new client set. The write
// guard and tool catalog keep their startup values.
func reload(ctx context.Context, configPath, configDir string, overrides config.Overrides, clients *awsclient.Registry, store *cache.Store, logger *log.Logger) {
	cfg, err := config.Load(configPath, configDir, overrides)
	if err != nil {
		logger.Error("config reload failed", "err", err)
		return
	}
	if err := clients.Initialize(ctx, cfg.Region, cfg.Profile); err != nil {
		logger.Error("AWS client reload failed", "err", err)
		return
	}
	store.Clear()
	logger.Info("AWS clients reloaded", "region", clients.Current().Region, "profile", displayProfile(cfg.Profile))
}

func displayProfile(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

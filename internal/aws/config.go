package aws

import (
	"context"
	"os"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdkconfig "github.com/aws/aws-sdk-go-v2/config"
)

const (
	DefaultRegion = "us-east-1"

	// SDK-level retry policy; nothing above the SDK retries.
	retryMaxAttempts = 10
)

// AppID is appended to the SDK user agent. The server sets it to
// "fismcp/<version>" at startup.
var AppID = "fismcp"

func ResolveRegion(region string) string {
	region = strings.TrimSpace(region)
	if region == "" {
		region = strings.TrimSpace(os.Getenv("AWS_REGION"))
	}
	if region == "" {
		region = strings.TrimSpace(os.Getenv("AWS_DEFAULT_REGION"))
	}
	if region == "" {
		region = DefaultRegion
	}
	return region
}

func ResolveProfile(profile string) string {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = strings.TrimSpace(os.Getenv("AWS_PROFILE"))
	}
	if profile == "" {
		profile = strings.TrimSpace(os.Getenv("AWS_DEFAULT_PROFILE"))
	}
	return profile
}

func LoadConfig(ctx context.Context, region, profile string) (sdkaws.Config, error) {
	loadOpts := []func(*sdkconfig.LoadOptions) error{
		sdkconfig.WithRegion(ResolveRegion(region)),
		sdkconfig.WithRetryMode(sdkaws.RetryModeStandard),
		sdkconfig.WithRetryMaxAttempts(retryMaxAttempts),
		sdkconfig.WithAppID(AppID),
	}
	if profile = ResolveProfile(profile); profile != "" {
		loadOpts = append(loadOpts, sdkconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := sdkconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return cfg, err
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = DefaultRegion
	}
	return cfg, nil
}

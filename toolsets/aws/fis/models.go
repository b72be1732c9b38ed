package awsfis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/fis"
	"github.com/aws/aws-sdk-go-v2/service/fis/types"
)

const (
	ActionsModeRunAll        = "run-all"
	ActionsModeSkipAll       = "skip-all"
	ActionsModeStopOnFailure = "stop-on-failure"

	DefaultMaxTimeoutSeconds   = 3600
	DefaultInitialPollInterval = 5
	DefaultMaxPollInterval     = 60
)

type StopCondition struct {
	Source string `json:"source"`
	Value  string `json:"value,omitempty"`
}

type TargetFilter struct {
	Path   string   `json:"path"`
	Values []string `json:"values"`
}

// Target selects resources by ARN, tag and filter; the strategies combine.
type Target struct {
	ResourceType  string            `json:"resourceType"`
	ResourceArns  []string          `json:"resourceArns,omitempty"`
	ResourceTags  map[string]string `json:"resourceTags,omitempty"`
	Filters       []TargetFilter    `json:"filters,omitempty"`
	SelectionMode string            `json:"selectionMode"`
	Parameters    map[string]string `json:"parameters,omitempty"`
}

// Action is one fault. StartAfter names other actions of the same template;
// the service checks the ordering graph.
type Action struct {
	ActionID    string            `json:"actionId"`
	Description string            `json:"description,omitempty"`
	Parameters  map[string]string `json:"parameters,omitempty"`
	Targets     map[string]string `json:"targets,omitempty"`
	StartAfter  []string          `json:"startAfter,omitempty"`
}

type CloudWatchLogsConfig struct {
	LogGroupArn string `json:"logGroupArn"`
}

type S3LogConfig struct {
	BucketName string `json:"bucketName"`
	Prefix     string `json:"prefix,omitempty"`
}

type LogConfiguration struct {
	LogSchemaVersion            int32                 `json:"logSchemaVersion"`
	CloudWatchLogsConfiguration *CloudWatchLogsConfig `json:"cloudWatchLogsConfiguration,omitempty"`
	S3Configuration             *S3LogConfig          `json:"s3Configuration,omitempty"`
}

// ExperimentTemplateRequest carries the fields shared by template creation
// and update. Pointer and nil-able fields distinguish "unset" for updates.
type ExperimentTemplateRequest struct {
	ID                  string
	ClientToken         string
	Description         *string
	Tags                map[string]string
	StopConditions      []StopCondition
	Targets             map[string]Target
	Actions             map[string]Action
	RoleArn             *string
	LogConfiguration    *LogConfiguration
	ExperimentOptions   map[string]string
	ReportConfiguration map[string]any
}

type StartExperimentRequest struct {
	TemplateID          string
	Name                string
	Tags                map[string]string
	ActionsMode         string
	MaxTimeoutSeconds   int
	InitialPollInterval int
	MaxPollInterval     int
}

// NameTags seeds the Name tag and overlays caller tags on top of it.
func NameTags(name string, extra map[string]string) map[string]string {
	tags := map[string]string{"Name": name}
	for k, v := range extra {
		tags[k] = v
	}
	return tags
}

func (s StopCondition) Validate() error {
	if strings.TrimSpace(s.Source) == "" {
		return fmt.Errorf("stop condition source is required")
	}
	return nil
}

func (t Target) Validate() error {
	if strings.TrimSpace(t.ResourceType) == "" {
		return fmt.Errorf("target resourceType is required")
	}
	if strings.TrimSpace(t.SelectionMode) == "" {
		return fmt.Errorf("target selectionMode is required")
	}
	for _, filter := range t.Filters {
		if strings.TrimSpace(filter.Path) == "" {
			return fmt.Errorf("target filter path is required")
		}
	}
	return nil
}

func (a Action) Validate() error {
	if strings.TrimSpace(a.ActionID) == "" {
		return fmt.Errorf("action actionId is required")
	}
	return nil
}

func (l LogConfiguration) Validate() error {
	if l.LogSchemaVersion <= 0 {
		return fmt.Errorf("log configuration logSchemaVersion is required")
	}
	if l.CloudWatchLogsConfiguration == nil && l.S3Configuration == nil {
		return fmt.Errorf("log configuration needs cloudWatchLogsConfiguration or s3Configuration")
	}
	return nil
}

func (r ExperimentTemplateRequest) validateParts() error {
	for _, cond := range r.StopConditions {
		if err := cond.Validate(); err != nil {
			return err
		}
	}
	for name, target := range r.Targets {
		if err := target.Validate(); err != nil {
			return fmt.Errorf("target %s: %w", name, err)
		}
	}
	for name, action := range r.Actions {
		if err := action.Validate(); err != nil {
			return fmt.Errorf("action %s: %w", name, err)
		}
	}
	if r.LogConfiguration != nil {
		if err := r.LogConfiguration.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCreate checks the fields the create call needs.
func (r ExperimentTemplateRequest) ValidateCreate() error {
	if strings.TrimSpace(r.ClientToken) == "" {
		return fmt.Errorf("clientToken is required")
	}
	if r.Description == nil || strings.TrimSpace(*r.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if r.RoleArn == nil || strings.TrimSpace(*r.RoleArn) == "" {
		return fmt.Errorf("role_arn is required")
	}
	return r.validateParts()
}

func (r ExperimentTemplateRequest) ValidateUpdate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("id is required")
	}
	return r.validateParts()
}

func (r StartExperimentRequest) Validate() error {
	if strings.TrimSpace(r.TemplateID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	switch r.ActionsMode {
	case ActionsModeRunAll, ActionsModeSkipAll, ActionsModeStopOnFailure:
	default:
		return fmt.Errorf("invalid action %q: expected run-all, skip-all or stop-on-failure", r.ActionsMode)
	}
	if r.MaxTimeoutSeconds < 0 || r.InitialPollInterval < 0 || r.MaxPollInterval < 0 {
		return fmt.Errorf("timeout and poll intervals must not be negative")
	}
	return nil
}

func (r ExperimentTemplateRequest) CreateInput() (*fis.CreateExperimentTemplateInput, error) {
	input := &fis.CreateExperimentTemplateInput{
		ClientToken:    aws.String(r.ClientToken),
		Description:    r.Description,
		RoleArn:        r.RoleArn,
		Tags:           r.Tags,
		StopConditions: make([]types.CreateExperimentTemplateStopConditionInput, 0, len(r.StopConditions)),
		Targets:        make(map[string]types.CreateExperimentTemplateTargetInput, len(r.Targets)),
		Actions:        make(map[string]types.CreateExperimentTemplateActionInput, len(r.Actions)),
	}
	for _, cond := range r.StopConditions {
		input.StopConditions = append(input.StopConditions, types.CreateExperimentTemplateStopConditionInput{
			Source: aws.String(cond.Source),
			Value:  optionalString(cond.Value),
		})
	}
	for name, target := range r.Targets {
		input.Targets[name] = types.CreateExperimentTemplateTargetInput{
			ResourceType:  aws.String(target.ResourceType),
			SelectionMode: aws.String(target.SelectionMode),
			ResourceArns:  target.ResourceArns,
			ResourceTags:  target.ResourceTags,
			Filters:       targetFilters(target.Filters),
			Parameters:    target.Parameters,
		}
	}
	for name, action := range r.Actions {
		input.Actions[name] = types.CreateExperimentTemplateActionInput{
			ActionId:    aws.String(action.ActionID),
			Description: optionalString(action.Description),
			Parameters:  action.Parameters,
			Targets:     action.Targets,
			StartAfter:  action.StartAfter,
		}
	}
	if r.LogConfiguration != nil {
		input.LogConfiguration = &types.CreateExperimentTemplateLogConfigurationInput{
			LogSchemaVersion:            aws.Int32(r.LogConfiguration.LogSchemaVersion),
			CloudWatchLogsConfiguration: cloudWatchLogs(r.LogConfiguration.CloudWatchLogsConfiguration),
			S3Configuration:             s3Logs(r.LogConfiguration.S3Configuration),
		}
	}
	if len(r.ExperimentOptions) > 0 {
		input.ExperimentOptions = &types.CreateExperimentTemplateExperimentOptionsInput{
			AccountTargeting:          types.AccountTargeting(r.ExperimentOptions["accountTargeting"]),
			EmptyTargetResolutionMode: types.EmptyTargetResolutionMode(r.ExperimentOptions["emptyTargetResolutionMode"]),
		}
	}
	if r.ReportConfiguration != nil {
		report := &types.CreateExperimentTemplateReportConfigurationInput{}
		if err := decodeInto(r.ReportConfiguration, report); err != nil {
			return nil, fmt.Errorf("invalid report_configuration: %w", err)
		}
		input.ExperimentReportConfiguration = report
	}
	return input, nil
}

// UpdateInput sets only the fields present on the request.
func (r ExperimentTemplateRequest) UpdateInput() (*fis.UpdateExperimentTemplateInput, error) {
	input := &fis.UpdateExperimentTemplateInput{
		Id:          aws.String(r.ID),
		Description: r.Description,
		RoleArn:     r.RoleArn,
	}
	if r.StopConditions != nil {
		input.StopConditions = make([]types.UpdateExperimentTemplateStopConditionInput, 0, len(r.StopConditions))
		for _, cond := range r.StopConditions {
			input.StopConditions = append(input.StopConditions, types.UpdateExperimentTemplateStopConditionInput{
				Source: aws.String(cond.Source),
				Value:  optionalString(cond.Value),
			})
		}
	}
	if r.Targets != nil {
		input.Targets = make(map[string]types.UpdateExperimentTemplateTargetInput, len(r.Targets))
		for name, target := range r.Targets {
			input.Targets[name] = types.UpdateExperimentTemplateTargetInput{
				ResourceType:  aws.String(target.ResourceType),
				SelectionMode: aws.String(target.SelectionMode),
				ResourceArns:  target.ResourceArns,
				ResourceTags:  target.ResourceTags,
				Filters:       targetFilters(target.Filters),
				Parameters:    target.Parameters,
			}
		}
	}
	if r.Actions != nil {
		input.Actions = make(map[string]types.UpdateExperimentTemplateActionInputItem, len(r.Actions))
		for name, action := range r.Actions {
			input.Actions[name] = types.UpdateExperimentTemplateActionInputItem{
				ActionId:    aws.String(action.ActionID),
				Description: optionalString(action.Description),
				Parameters:  action.Parameters,
				Targets:     action.Targets,
				StartAfter:  action.StartAfter,
			}
		}
	}
	if r.LogConfiguration != nil {
		input.LogConfiguration = &types.UpdateExperimentTemplateLogConfigurationInput{
			LogSchemaVersion:            aws.Int32(r.LogConfiguration.LogSchemaVersion),
			CloudWatchLogsConfiguration: cloudWatchLogs(r.LogConfiguration.CloudWatchLogsConfiguration),
			S3Configuration:             s3Logs(r.LogConfiguration.S3Configuration),
		}
	}
	if r.ExperimentOptions != nil {
		// Account targeting is fixed at creation.
		input.ExperimentOptions = &types.UpdateExperimentTemplateExperimentOptionsInput{
			EmptyTargetResolutionMode: types.EmptyTargetResolutionMode(r.ExperimentOptions["emptyTargetResolutionMode"]),
		}
	}
	if r.ReportConfiguration != nil {
		report := &types.UpdateExperimentTemplateReportConfigurationInput{}
		if err := decodeInto(r.ReportConfiguration, report); err != nil {
			return nil, fmt.Errorf("invalid experiment_report_configuration: %w", err)
		}
		input.ExperimentReportConfiguration = report
	}
	return input, nil
}

func (r StartExperimentRequest) Input() *fis.StartExperimentInput {
	return &fis.StartExperimentInput{
		ExperimentTemplateId: aws.String(r.TemplateID),
		ExperimentOptions: &types.StartExperimentExperimentOptionsInput{
			ActionsMode: types.ActionsMode(r.ActionsMode),
		},
		Tags: NameTags(r.Name, r.Tags),
	}
}

func targetFilters(filters []TargetFilter) []types.ExperimentTemplateTargetInputFilter {
	if filters == nil {
		return nil
	}
	out := make([]types.ExperimentTemplateTargetInputFilter, 0, len(filters))
	for _, filter := range filters {
		out = append(out, types.ExperimentTemplateTargetInputFilter{
			Path:   aws.String(filter.Path),
			Values: filter.Values,
		})
	}
	return out
}

func cloudWatchLogs(cfg *CloudWatchLogsConfig) *types.ExperimentTemplateCloudWatchLogsLogConfigurationInput {
	if cfg == nil {
		return nil
	}
	return &types.ExperimentTemplateCloudWatchLogsLogConfigurationInput{LogGroupArn: aws.String(cfg.LogGroupArn)}
}

func s3Logs(cfg *S3LogConfig) *types.ExperimentTemplateS3LogConfigurationInput {
	if cfg == nil {
		return nil
	}
	return &types.ExperimentTemplateS3LogConfigurationInput{
		BucketName: aws.String(cfg.BucketName),
		Prefix:     optionalString(cfg.Prefix),
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return aws.String(value)
}

// decodeInto maps a JSON-shaped value onto an SDK input struct. Keys match
// field names case-insensitively, so service wire casing works.
func decodeInto(value any, target any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

package tasklists

import "github.com/goliatone/go-tasklists/internal/runtimeconfig"

var (
	ErrMarkdownFeatureRequired          = runtimeconfig.ErrMarkdownFeatureRequired
	ErrMarkdownContentDirRequired       = runtimeconfig.ErrMarkdownContentDirRequired
	ErrCommandsFeatureRequired          = runtimeconfig.ErrCommandsFeatureRequired
	ErrCommandsTimeoutInvalid           = runtimeconfig.ErrCommandsTimeoutInvalid
	ErrTaskListsIDPrefixInvalid         = runtimeconfig.ErrTaskListsIDPrefixInvalid
	ErrTaskListsIDStrategyUnknown       = runtimeconfig.ErrTaskListsIDStrategyUnknown
	ErrLoggingProviderRequired          = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown           = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid              = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid             = runtimeconfig.ErrLoggingFormatInvalid
)

const (
	IDStrategyRandom        = runtimeconfig.IDStrategyRandom
	IDStrategySequential    = runtimeconfig.IDStrategySequential
	IDStrategyDeterministic = runtimeconfig.IDStrategyDeterministic
)

type (
	Config               = runtimeconfig.Config
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	TaskListConfig       = runtimeconfig.TaskListConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

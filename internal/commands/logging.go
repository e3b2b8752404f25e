package commands

import (
	"strings"

	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

const commandModuleRoot = "tasklists.commands"

// CommandLogger returns a module-scoped logger for command handlers tagged with the
// command component and module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

package mcpsrv

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/savorytui/config"
)

// Config is the mcp section of the application configuration.
type Config = config.MCPConfig

func StreamableOptions(cfg Config) *mcp.StreamableHTTPOptions {
	return &mcp.StreamableHTTPOptions{
		Stateless:      cfg.Stateless,
		SessionTimeout: cfg.SessionTimeout,
	}
}

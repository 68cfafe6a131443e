package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelscribe/internal/api"
	"reelscribe/internal/config"
)

type commandContext struct {
	configFlag *string
	apiFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiFlag:    apiFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiClient dials the --api address, falling back to the configured bind.
func (c *commandContext) apiClient() (*api.Client, error) {
	bind := ""
	if c.apiFlag != nil {
		bind = strings.TrimSpace(*c.apiFlag)
	}
	if bind == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		bind = cfg.Paths.APIBind
	}
	client, err := api.NewClient(bind)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return client, nil
}

func wrapAPIError(err error) error {
	if api.IsAPIUnavailable(err) {
		return fmt.Errorf("connect to daemon: %w; start it with `reelscribe serve`", err)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

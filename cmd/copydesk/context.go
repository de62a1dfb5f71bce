package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"copydesk/internal/api"
	"copydesk/internal/config"
	"copydesk/internal/logging"
	"copydesk/internal/store"
	"copydesk/internal/workflow"
)

type globalFlags struct {
	config    string
	output    string
	actorID   string
	actorName string
	role      string
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		c.configPath, c.configExists = path, exists
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

// withService opens the store, runs fn against a workflow service, then waits
// for background notifications before closing the store.
func (c *commandContext) withService(fn func(*api.WorkflowService) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open article store: %w", err)
	}
	defer st.Close()

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	engine := workflow.NewEngineFromConfig(cfg, st, logger)
	defer engine.Wait()

	return fn(api.NewWorkflowService(engine, logger))
}

// actor resolves the acting identity from flags, then environment.
func (c *commandContext) actor() (api.Actor, error) {
	id := firstNonEmpty(c.flags.actorID, os.Getenv("COPYDESK_ACTOR"), os.Getenv("USER"))
	role := firstNonEmpty(c.flags.role, os.Getenv("COPYDESK_ROLE"))
	if id == "" {
		return api.Actor{}, errors.New("acting user is required (use --actor or COPYDESK_ACTOR)")
	}
	if role == "" {
		return api.Actor{}, errors.New("acting role is required (use --role or COPYDESK_ROLE)")
	}
	return api.Actor{ID: id, Name: strings.TrimSpace(c.flags.actorName), Role: role}, nil
}

func (c *commandContext) outputFormat() string {
	return normalizeOutputFormat(c.flags.output)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mp4tomp3/cmd"
	"mp4tomp3/infrastructure/config"

	"github.com/cucumber/godog"
)

// mockPrompter answers prompts from a prepared question -> answer map
type mockPrompter struct {
	answers        map[string]string
	confirmAnswer  bool
	confirmedAsked bool
}

func (p *mockPrompter) Input(message string, defaultValue string) (string, error) {
	if answer, ok := p.answers[message]; ok {
		return answer, nil
	}
	return defaultValue, nil
}

func (p *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	p.confirmedAsked = true
	return p.confirmAnswer, nil
}

// setupContext holds test state for setup scenarios
type setupContext struct {
	dir        string
	configPath string
	prompter   *mockPrompter
	original   []byte
	err        error
}

// SharedSetupContext is reset before each scenario via Before hook
var SharedSetupContext *setupContext

func getSetupContext() *setupContext {
	return SharedSetupContext
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "mp4tomp3-setup-*")
		if err != nil {
			return c, err
		}
		SharedSetupContext = &setupContext{
			dir:        dir,
			configPath: filepath.Join(dir, "config", "config.yaml"),
			prompter:   &mockPrompter{answers: make(map[string]string)},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedSetupContext != nil {
			os.RemoveAll(SharedSetupContext.dir)
		}
		SharedSetupContext = nil
		return c, nil
	})

	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^a configuration file already exists$`, aConfigurationFileAlreadyExists)
	ctx.Step(`^I will answer the prompts with:$`, iWillAnswerThePromptsWith)
	ctx.Step(`^I decline to overwrite it$`, iDeclineToOverwriteIt)
	ctx.Step(`^I run setup$`, iRunSetup)
	ctx.Step(`^the configuration file should contain:$`, theConfigurationFileShouldContain)
	ctx.Step(`^the configuration file should be unchanged$`, theConfigurationFileShouldBeUnchanged)
}

func noConfigurationFileExists() error {
	return nil
}

func aConfigurationFileAlreadyExists() error {
	s := getSetupContext()
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	cfg := config.Default()
	cfg.Audio.Bitrate = "existing-value"
	if err := config.Save(cfg, s.configPath); err != nil {
		return err
	}
	var err error
	s.original, err = os.ReadFile(s.configPath)
	return err
}

func iWillAnswerThePromptsWith(table *godog.Table) error {
	s := getSetupContext()
	for _, row := range table.Rows {
		s.prompter.answers[row.Cells[0].Value] = row.Cells[1].Value
	}
	return nil
}

func iDeclineToOverwriteIt() error {
	getSetupContext().prompter.confirmAnswer = false
	return nil
}

func iRunSetup() error {
	s := getSetupContext()
	s.err = cmd.RunSetupWithPrompter(s.prompter, s.configPath)
	if s.err != nil {
		return fmt.Errorf("unexpected error: %v", s.err)
	}
	return nil
}

func theConfigurationFileShouldContain(table *godog.Table) error {
	s := getSetupContext()

	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("configuration was not written: %v", err)
	}

	mgr := config.NewManager(cfg, s.configPath)
	for _, row := range table.Rows {
		key, want := row.Cells[0].Value, row.Cells[1].Value
		got, err := mgr.Get(key)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("config %s = %q, want %q", key, got, want)
		}
	}
	return nil
}

func theConfigurationFileShouldBeUnchanged() error {
	s := getSetupContext()

	if !s.prompter.confirmedAsked {
		return fmt.Errorf("overwrite confirmation was never asked")
	}

	current, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(current) != string(s.original) {
		return fmt.Errorf("configuration file was modified")
	}
	return nil
}

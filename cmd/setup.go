package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"mp4tomp3/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the default video and audio
directories, the audio bitrate, and the ffmpeg executable path.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, config.DefaultConfigPath)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to mp4tomp3 setup!")
	fmt.Println()

	defaults := config.Default()
	cfg := &config.Config{}

	videoDir, err := prompter.Input("Where are the source MP4 files?", defaults.Paths.VideoDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if videoDir == "" {
		videoDir = defaults.Paths.VideoDirectory
	}
	cfg.Paths.VideoDirectory = videoDir

	audioDir, err := prompter.Input("Where should converted MP3 files go?", defaults.Paths.AudioDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if audioDir == "" {
		audioDir = defaults.Paths.AudioDirectory
	}
	cfg.Paths.AudioDirectory = audioDir

	bitrate, err := prompter.Input("Audio bitrate for conversion?", defaults.Audio.Bitrate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bitrate == "" {
		bitrate = defaults.Audio.Bitrate
	}
	cfg.Audio.Bitrate = bitrate

	enginePath, err := prompter.Input("Path to the ffmpeg executable?", defaults.FFmpeg.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if enginePath == "" {
		enginePath = defaults.FFmpeg.Path
	}
	cfg.FFmpeg.Path = enginePath

	workersStr, err := prompter.Input("How many parallel conversions?", strconv.Itoa(defaults.Conversion.Workers))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	workerCount, err := strconv.Atoi(workersStr)
	if err != nil || workerCount < 1 {
		workerCount = defaults.Conversion.Workers
	}
	cfg.Conversion.Workers = workerCount

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

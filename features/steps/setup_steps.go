//go:build integration

package steps

import (
	"bytes"

	"ytmp3/cmd"

	"github.com/cucumber/godog"
)

// MockPrompter implements cmd.Prompter for testing.
// Inputs beyond the scripted ones take the prompt's default.
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		return defaultValue, nil
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	if response == "" {
		return defaultValue, nil
	}
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

var _ cmd.Prompter = (*MockPrompter)(nil)

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I run setup answering port "([^"]*)" and output directory "([^"]*)"$`, iRunSetupAnsweringPortAndOutputDirectory)
}

func iRunSetupAnsweringPortAndOutputDirectory(port, outputDir string) error {
	// port, scratch directory, output directory; the rest take defaults
	prompter := NewMockPrompter([]string{port, "", outputDir}, nil)
	return cmd.RunSetupWithPrompter(prompter, SharedConfigContext.configPath, &bytes.Buffer{})
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
)

// Prompter asks the user for a single value.
type Prompter interface {
	Input(question, defaultValue string, secret bool) (string, error)
}

// TerminalPrompter prompts on the terminal.
type TerminalPrompter struct{}

// Input asks question, hiding the typed text when secret is set.
func (TerminalPrompter) Input(question, defaultValue string, secret bool) (string, error) {
	if secret {
		return prompt.New().Ask(question).Input(defaultValue, input.WithEchoMode(input.EchoNone))
	}
	return prompt.New().Ask(question).Input(defaultValue)
}

// PromptCredentials asks for the OAuth2 client credentials and saves them to the config file.
func PromptCredentials(cfg *Config, p Prompter) error {
	clientID, err := p.Input("Twitter OAuth2 client ID:", cfg.Twitter.ClientID, false)
	if err != nil {
		return fmt.Errorf("failed to read client ID: %w", err)
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return errors.New("client ID is required")
	}

	secret, err := p.Input("Twitter OAuth2 client secret (empty for public clients):", "", true)
	if err != nil {
		return fmt.Errorf("failed to read client secret: %w", err)
	}

	cfg.Twitter.ClientID = clientID
	cfg.Twitter.ClientSecret = strings.TrimSpace(secret)

	return SaveConfig(cfg)
}

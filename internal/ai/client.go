// Package ai talks to the configured generative provider to produce
// interview questions and score finished interviews. Every call has a
// deterministic fallback so the interview flow never depends on a healthy
// provider.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kweku404/intervue/internal/config"
)

// Client calls the configured AI provider
type Client struct {
	HTTP *http.Client
}

// NewClient creates an AI client. A nil httpClient gets a default with a
// generous timeout; evaluation calls can be slow.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{HTTP: httpClient}
}

// chatComplete sends a prompt to the configured provider and returns the
// raw text of the completion
func (c *Client) chatComplete(prompt string, maxTokens int) (string, error) {
	if config.AppConfig == nil {
		return "", fmt.Errorf("configuration not initialized")
	}
	provider := config.AppConfig.AIProvider

	switch provider {
	case "openai":
		return c.completeWithOpenAI(prompt, maxTokens)
	case "anthropic":
		return c.completeWithAnthropic(prompt, maxTokens)
	case "ollama":
		return c.completeWithOllama(prompt)
	case "lmstudio":
		return c.completeWithLMStudio(prompt, maxTokens)
	default:
		return "", fmt.Errorf("unsupported AI provider: %s", provider)
	}
}

// completeWithOpenAI sends the prompt to the OpenAI chat completions API
func (c *Client) completeWithOpenAI(prompt string, maxTokens int) (string, error) {
	apiKey := config.AppConfig.OpenAIKey
	if apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured. Run: intervue config set --key openai_key --value YOUR_KEY")
	}

	model := config.AppConfig.DefaultModel
	if model == "" {
		model = "gpt-4"
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
		"max_tokens":  maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("OpenAI API error: %s", string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	choices, ok := result["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return "", fmt.Errorf("unexpected response format from OpenAI")
	}

	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response format from OpenAI")
	}
	message, ok := choice["message"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response format from OpenAI")
	}
	content, ok := message["content"].(string)
	if !ok {
		return "", fmt.Errorf("unexpected response format from OpenAI")
	}

	return strings.TrimSpace(content), nil
}

// completeWithAnthropic sends the prompt to the Anthropic messages API
func (c *Client) completeWithAnthropic(prompt string, maxTokens int) (string, error) {
	apiKey := config.AppConfig.AnthropicKey
	if apiKey == "" {
		return "", fmt.Errorf("Anthropic API key not configured. Run: intervue config set --key anthropic_key --value YOUR_KEY")
	}

	reqBody := map[string]interface{}{
		"model":      "claude-3-5-sonnet-20241022",
		"max_tokens": maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", "https://api.anthropic.com/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("Anthropic API error: %s", string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	content, ok := result["content"].([]interface{})
	if !ok || len(content) == 0 {
		return "", fmt.Errorf("unexpected response format from Anthropic")
	}

	contentBlock, ok := content[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response format from Anthropic")
	}
	text, ok := contentBlock["text"].(string)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Anthropic")
	}

	return strings.TrimSpace(text), nil
}

// completeWithOllama sends the prompt to a local Ollama instance
func (c *Client) completeWithOllama(prompt string) (string, error) {
	url := config.AppConfig.OllamaURL
	if url == "" {
		url = "http://localhost:11434"
	}

	model := config.AppConfig.DefaultModel
	if model == "" {
		model = "llama3.2"
	}

	reqBody := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", url+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("Ollama API error: %s", string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	response, ok := result["response"].(string)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Ollama")
	}

	return strings.TrimSpace(response), nil
}

// completeWithLMStudio sends the prompt to a local LMStudio instance
func (c *Client) completeWithLMStudio(prompt string, maxTokens int) (string, error) {
	url := config.AppConfig.LMStudioURL
	if url == "" {
		url = "http://localhost:1234"
	}

	model := config.AppConfig.DefaultModel
	if model == "" {
		model = "local-model"
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
		"max_tokens":  maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("LMStudio API error: %s", string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	choices, ok := result["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return "", fmt.Errorf("unexpected response format from LMStudio")
	}

	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response format from LMStudio")
	}
	message, ok := choice["message"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response format from LMStudio")
	}
	content, ok := message["content"].(string)
	if !ok {
		return "", fmt.Errorf("unexpected response format from LMStudio")
	}

	return strings.TrimSpace(content), nil
}

var codeFenceRe = regexp.MustCompile("(?i)```(?:json)?")

// stripFences removes markdown code fences some models wrap JSON in
func stripFences(s string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(s, ""))
}

package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	altai "github.com/sashabaranov/go-openai"

	"tablesense/internal/sqltext"
	"tablesense/internal/util"
)

// ErrDisabled is returned when no API key is configured or offline mode is on.
var ErrDisabled = errors.New("openai disabled")

// Minimal client wrapper around an OpenAI-compatible chat endpoint.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{apiKey: apiKey, baseURL: baseURL, model: model, timeout: timeout}
}

func (c *OpenAIClient) Enabled() bool { return c != nil && c.apiKey != "" }

// Explain describes what a statement does. Literal values are masked
// before anything leaves the machine.
func (c *OpenAIClient) Explain(ctx context.Context, sql string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	stmt := sqltext.Compress(sql)
	if stmt == "" {
		return "", errors.New("no statement to explain")
	}
	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	out, err := c.callAlt(ctx2, buildExplainPrompt(util.RedactSQL(stmt)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *OpenAIClient) callAlt(ctx context.Context, prompt string) (string, error) {
	cfg := altai.DefaultConfig(c.apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cli := altai.NewClientWithConfig(cfg)
	resp, err := cli.CreateChatCompletion(ctx, altai.ChatCompletionRequest{
		Model: c.model,
		Messages: []altai.ChatCompletionMessage{
			{Role: altai.ChatMessageRoleSystem, Content: "You explain SQL statements to engineers in plain text. Be brief: what it reads or changes, which tables, which filters, and any risk. No code fences."},
			{Role: altai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildExplainPrompt(stmt string) string {
	var b strings.Builder
	b.WriteString("Explain this statement. Literal values were replaced with placeholders.\n")
	if tables := sqltext.TableNames(stmt); len(tables) > 0 {
		b.WriteString("Tables: ")
		b.WriteString(strings.Join(tables, ", "))
		b.WriteByte('\n')
	}
	b.WriteString("Statement:\n")
	b.WriteString(sqltext.Format(stmt))
	b.WriteByte('\n')
	return b.String()
}

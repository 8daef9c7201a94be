// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/levmap/incident-engine/pkg/types"
)

// OllamaClassifier calls a local Ollama server's generate endpoint. Calls
// are rate limited so a burst of matched messages does not saturate the
// model runner.
type OllamaClassifier struct {
	endpoint string
	model    string
	typeList string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewOllamaClassifier builds a classifier against cfg.Endpoint. knownTypes
// is the closed incident type set advertised in the prompt. The HTTP client
// carries no timeout of its own; callers bound each call through ctx.
func NewOllamaClassifier(cfg types.ModelConfig, knownTypes []types.IncidentType) *OllamaClassifier {
	names := make([]string, 0, len(knownTypes)+1)
	for _, t := range knownTypes {
		names = append(names, string(t))
	}
	names = append(names, string(types.TypeOther))

	return &OllamaClassifier{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		typeList: strings.Join(names, ", "),
		client:   &http.Client{},
		limiter:  rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
	}
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the non-streaming Ollama response body.
type generateResponse struct {
	Response string `json:"response"`
}

// Classify sends the raw message to the model and parses the first JSON
// object out of its reply. Transport and decoding failures return an
// error; the caller treats any error as an empty result.
func (o *OllamaClassifier) Classify(ctx context.Context, text string) (Result, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limiter: %w", err)
	}

	prompt, err := renderPrompt(text, o.typeList)
	if err != nil {
		return Result{}, fmt.Errorf("rendering prompt: %w", err)
	}

	body, err := json.Marshal(generateRequest{Model: o.model, Prompt: prompt, Stream: false})
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("calling model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("model returned %d: %s", resp.StatusCode, string(b))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return Result{}, fmt.Errorf("decoding model response: %w", err)
	}

	return ParseResult(gr.Response), nil
}

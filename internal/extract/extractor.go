// Package extract reads invoice photos through the Gemini API and returns
// the few fields the trip form can be pre-filled with. Results are only
// candidates; the caller merges them after explicit user confirmation.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/kesleylibanio/fretesopipa/internal/config"
)

const prompt = "Você é um especialista em logística. Extraia da imagem desta Nota Fiscal (DANFE) apenas: " +
	"data_emissao (formato YYYY-MM-DD), numero_nota (apenas dígitos), peso_liquido_toneladas (número decimal). " +
	"Retorne exclusivamente um JSON puro."

// ErrCredential marks failures that look permission-related; the client
// should prompt for the extraction credential instead of retrying blindly.
var ErrCredential = errors.New("extraction credential rejected")

type Result struct {
	IssueDate     string  `json:"data_emissao,omitempty"`
	InvoiceNumber string  `json:"numero_nota,omitempty"`
	NetWeightTons float64 `json:"peso_liquido_toneladas,omitempty"`
}

type Extractor struct {
	client *genai.Client
	model  string
}

func NewExtractor(ctx context.Context, cfg config.ExtractConfig) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("extraction API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Extractor{client: client, model: cfg.Model}, nil
}

// Extract sends the compressed invoice image with the fixed prompt and
// parses the JSON candidates out of the response.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string) (Result, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.1),
	})
	if err != nil {
		if looksLikeCredentialError(err) {
			return Result{}, fmt.Errorf("%w: %s", ErrCredential, err)
		}
		return Result{}, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Result{}, fmt.Errorf("empty extraction response")
	}
	return parseResult(text)
}

// parseResult is tolerant of the model returning numbers as strings.
func parseResult(text string) (Result, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Result{}, fmt.Errorf("unusable extraction response: %w", err)
	}

	result := Result{}
	if v, ok := raw["data_emissao"].(string); ok {
		result.IssueDate = v
	}
	switch v := raw["numero_nota"].(type) {
	case string:
		result.InvoiceNumber = v
	case float64:
		result.InvoiceNumber = strconv.FormatFloat(v, 'f', -1, 64)
	}
	switch v := raw["peso_liquido_toneladas"].(type) {
	case float64:
		result.NetWeightTons = v
	case string:
		if parsed, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
			result.NetWeightTons = parsed
		}
	}
	return result, nil
}

func looksLikeCredentialError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "403") ||
		strings.Contains(msg, "404") ||
		strings.Contains(msg, "PERMISSION_DENIED") ||
		strings.Contains(msg, "Requested entity was not found")
}

package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/emorelay/pkg/llm"
	"github.com/papercomputeco/emorelay/pkg/llm/provider"
)

// EmotionChatRequest is the body of POST /api/emotion-chat.
type EmotionChatRequest struct {
	Message string `json:"message"`
}

// EmotionRequest is the body of POST /api/emotion.
type EmotionRequest struct {
	Text string `json:"text"`
}

// EmotionResponse is the reply of POST /api/emotion. Empty is set, and the
// other fields omitted, when the text had nothing to classify.
type EmotionResponse struct {
	Label string `json:"label,omitempty"`
	Score *int   `json:"score,omitempty"`
	Emoji string `json:"emoji,omitempty"`
	Empty bool   `json:"empty,omitempty"`
}

// ProviderInfo describes one supported provider without exposing secrets.
type ProviderInfo struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// ProvidersResponse is the reply of GET /api/providers.
type ProvidersResponse struct {
	Default   string         `json:"default"`
	Providers []ProviderInfo `json:"providers"`
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// decodeBody unmarshals the request body into v. An empty body leaves v at
// its zero value so the handler reports the missing field instead.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return llm.NewValidationError("Invalid JSON body")
	}
	return nil
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{OK: true})
}

// handleChat relays a conversation to the selected LLM provider.
func (s *Server) handleChat(c *fiber.Ctx) error {
	req := &llm.ChatRequest{}
	if err := decodeBody(c, req); err != nil {
		return err
	}

	reply, err := s.config.Dispatcher.Dispatch(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(reply)
}

// handleEmotionChat relays a single message to the RAG backend and returns
// its JSON untouched.
func (s *Server) handleEmotionChat(c *fiber.Ctx) error {
	req := &EmotionChatRequest{}
	if err := decodeBody(c, req); err != nil {
		return err
	}

	raw, err := s.config.RAG.Chat(c.UserContext(), req.Message)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// handleEmotion tags text with the local lexicon classifier.
func (s *Server) handleEmotion(c *fiber.Ctx) error {
	req := &EmotionRequest{}
	if err := decodeBody(c, req); err != nil {
		return err
	}

	res, ok := s.config.Classifier.Classify(req.Text)
	if !ok {
		return c.JSON(EmotionResponse{Empty: true})
	}

	score := res.Score
	return c.JSON(EmotionResponse{
		Label: string(res.Label),
		Score: &score,
		Emoji: res.Label.Emoji(),
	})
}

// handleProviders lists the supported providers and whether each has the
// settings it needs. Credentials are never returned.
func (s *Server) handleProviders(c *fiber.Ctx) error {
	names := provider.SupportedProviders()
	resp := ProvidersResponse{
		Default:   s.config.Dispatcher.DefaultProvider(),
		Providers: make([]ProviderInfo, 0, len(names)),
	}
	for _, name := range names {
		resp.Providers = append(resp.Providers, ProviderInfo{
			Name:       name,
			Configured: s.config.Providers.Configured(name),
		})
	}

	return c.JSON(resp)
}

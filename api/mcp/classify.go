package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	classifyToolName    = "classify_emotion"
	classifyDescription = "Tag text with an emotion label (joy, anger, sadness, fear, surprise, love, neutral) and a polarity score using a Chinese/English keyword lexicon. Empty text yields empty=true and no label."
)

// ClassifyInput represents the input arguments for the classify_emotion tool.
type ClassifyInput struct {
	Text string `json:"text" jsonschema:"the text to classify"`
}

// ClassifyOutput represents the output of the classify_emotion tool.
type ClassifyOutput struct {
	Label string `json:"label,omitempty"`
	Score int    `json:"score"`
	Emoji string `json:"emoji,omitempty"`
	Empty bool   `json:"empty"`
}

func (s *Server) handleClassify(_ context.Context, _ *mcp.CallToolRequest, input ClassifyInput) (*mcp.CallToolResult, ClassifyOutput, error) {
	res, ok := s.config.Classifier.Classify(input.Text)
	if !ok {
		return nil, ClassifyOutput{Empty: true}, nil
	}

	return nil, ClassifyOutput{
		Label: string(res.Label),
		Score: res.Score,
		Emoji: res.Label.Emoji(),
	}, nil
}

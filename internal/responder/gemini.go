// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds configuration options for the Gemini responder.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// Model is the default text model (default: "gemini-2.5-flash").
	Model string

	// VideoInputModel handles requests whose latest attachment is video
	// (default: "gemini-3-pro-preview").
	VideoInputModel string

	// VideoGenModel renders videos in motion mode
	// (default: "veo-3.1-fast-generate-preview").
	VideoGenModel string

	// TitleModel generates session titles (default: same as Model).
	TitleModel string

	// PollInterval between video generation status checks (default: 5s).
	PollInterval time.Duration

	// RequestsPerMinute caps outbound request rate (default: 30).
	RequestsPerMinute int
}

// DefaultGeminiConfig returns the default responder configuration.
func DefaultGeminiConfig() Config {
	return Config{
		Model:             "gemini-2.5-flash",
		VideoInputModel:   "gemini-3-pro-preview",
		VideoGenModel:     "veo-3.1-fast-generate-preview",
		PollInterval:      5 * time.Second,
		RequestsPerMinute: 30,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultGeminiConfig()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.VideoInputModel == "" {
		c.VideoInputModel = def.VideoInputModel
	}
	if c.VideoGenModel == "" {
		c.VideoGenModel = def.VideoGenModel
	}
	if c.TitleModel == "" {
		c.TitleModel = c.Model
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = def.RequestsPerMinute
	}
}

// =============================================================================
// GEMINI RESPONDER
// =============================================================================

// Gemini answers transcripts through the Gemini API: streamed text with
// optional search grounding, video understanding for video attachments, and
// Veo rendering in motion mode.
//
// The responder is safe for concurrent use.
type Gemini struct {
	client     *genai.Client
	config     Config
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGemini creates a Gemini responder.
func NewGemini(ctx context.Context, cfg Config, logger *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create Gemini client", Cause: err}
	}

	return &Gemini{
		client:     client,
		config:     cfg,
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     logger,
	}, nil
}

// StreamResponse implements Responder.
func (g *Gemini) StreamResponse(ctx context.Context, history []*model.Turn, mode model.Mode, language string) (<-chan Chunk, error) {
	if len(history) == 0 {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "empty history"}
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeRateLimited, Message: "rate limit wait cancelled", Cause: err}
	}

	out := make(chan Chunk, 16)

	last := history[len(history)-1]
	if mode.GeneratesVideo() {
		go g.generateVideo(ctx, last.Content, out)
		return out, nil
	}

	contents, err := buildContents(history)
	if err != nil {
		close(out)
		return nil, err
	}

	modelID := g.config.Model
	if last.Attachment.IsVideo() {
		modelID = g.config.VideoInputModel
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			systemInstruction(mode, language, last.Attachment.IsAudio(), last.Attachment.IsVideo()),
			genai.RoleUser,
		),
	}
	if mode.UsesSearch() {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	go func() {
		defer close(out)
		for resp, err := range g.client.Models.GenerateContentStream(ctx, modelID, contents, cfg) {
			if err != nil {
				g.logger.Warn("stream failed", zap.String("model", modelID), zap.Error(err))
				out <- Chunk{Err: &ClientError{Type: ErrTypeConnection, Message: "stream failed", Cause: err}}
				return
			}
			out <- Chunk{
				Text:      resp.Text(),
				Grounding: extractGrounding(resp),
			}
		}
	}()
	return out, nil
}

// GenerateTitle implements Responder.
func (g *Gemini) GenerateTitle(ctx context.Context, content string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", &ClientError{Type: ErrTypeRateLimited, Message: "rate limit wait cancelled", Cause: err}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.TitleModel, genai.Text(titlePrompt(content)), nil)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "title generation failed", Cause: err}
	}
	title := strings.TrimSpace(resp.Text())
	if title == "" {
		return "", ErrInvalidResponse
	}
	return title, nil
}

// =============================================================================
// VIDEO GENERATION
// =============================================================================

// generateVideo renders a video with Veo and delivers progress text followed
// by the finished clip as a generated attachment. Render failures surface as
// plain text in the answer, not as a terminal stream error.
func (g *Gemini) generateVideo(ctx context.Context, prompt string, out chan<- Chunk) {
	defer close(out)

	out <- Chunk{Text: "Initializing Veo-3.1 Video Generation Engine...\n"}
	out <- Chunk{Text: "Compiling visual prompts...\n"}

	op, err := g.client.Models.GenerateVideos(ctx, g.config.VideoGenModel, prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		Resolution:     "720p",
		AspectRatio:    "16:9",
	})
	if err != nil {
		g.logger.Warn("video generation failed to start", zap.Error(err))
		out <- Chunk{Text: fmt.Sprintf("\nVideo Generation Failed: %v", err)}
		return
	}

	out <- Chunk{Text: "Rendering frames (this may take a moment)...\n"}

	for !op.Done {
		select {
		case <-ctx.Done():
			out <- Chunk{Err: ctx.Err()}
			return
		case <-time.After(g.config.PollInterval):
		}
		op, err = g.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			g.logger.Warn("video generation poll failed", zap.Error(err))
			out <- Chunk{Text: fmt.Sprintf("\nVideo Generation Failed: %v", err)}
			return
		}
		out <- Chunk{Text: "."}
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		out <- Chunk{Text: "\nError: No video URI returned."}
		return
	}
	video := op.Response.GeneratedVideos[0].Video

	out <- Chunk{Text: "\nFinalizing stream...\n"}

	att, err := g.downloadVideo(ctx, video)
	if err != nil {
		g.logger.Warn("video download failed", zap.Error(err))
		out <- Chunk{Text: fmt.Sprintf("\nVideo Generation Failed: %v", err)}
		return
	}

	out <- Chunk{Text: "\nVideo Generation Complete.", Attachment: att}
}

// downloadVideo fetches the rendered clip and stores it in a temp file the UI
// can play back.
func (g *Gemini) downloadVideo(ctx context.Context, video *genai.Video) (*model.Attachment, error) {
	data := video.VideoBytes
	if len(data) == 0 {
		if video.URI == "" {
			return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: "no video payload returned"}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, video.URI+"&key="+g.config.APIKey, nil)
		if err != nil {
			return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: "build download request", Cause: err}
		}
		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: "download generated video", Cause: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: fmt.Sprintf("download generated video: status %d", resp.StatusCode)}
		}
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: "read generated video", Cause: err}
		}
	}

	f, err := os.CreateTemp("", "lumiere-veo-*.mp4")
	if err != nil {
		return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: "create preview file", Cause: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: "write preview file", Cause: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, &ClientError{Type: ErrTypeVideoGeneration, Message: "close preview file", Cause: err}
	}

	return &model.Attachment{
		PreviewURL: f.Name(),
		MIMEType:   "video/mp4",
		Generated:  true,
	}, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// buildContents converts transcript turns into Gemini request contents. User
// attachments ride along as inline data parts.
func buildContents(history []*model.Turn) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := genai.RoleModel
		if t.Role == model.RoleUser {
			role = genai.RoleUser
		}

		parts := []*genai.Part{{Text: t.Content}}
		if t.Role == model.RoleUser && t.Attachment != nil && t.Attachment.Data != "" {
			raw, err := base64.StdEncoding.DecodeString(t.Attachment.Data)
			if err != nil {
				return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "attachment payload is not valid base64", Cause: err}
			}
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: t.Attachment.MIMEType,
					Data:     raw,
				},
			})
		}

		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents, nil
}

// extractGrounding pulls web-search grounding out of a stream response, or
// nil when the chunk carries none.
func extractGrounding(resp *genai.GenerateContentResponse) *model.GroundingMetadata {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata

	out := &model.GroundingMetadata{
		SearchQueries: append([]string(nil), gm.WebSearchQueries...),
	}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out.Chunks = append(out.Chunks, model.GroundingChunk{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

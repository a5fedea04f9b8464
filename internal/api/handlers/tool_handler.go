package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dakshcoder1/Capstone-project-Final/internal/auth"
	"github.com/dakshcoder1/Capstone-project-Final/internal/models"
	"github.com/dakshcoder1/Capstone-project-Final/internal/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxUploadMemory = 32 << 20 // 32 MB

// placeholderImage is what every mocked tool returns as its result.
const placeholderImage = "test.jpg"

// TextGenerator is the external text-generation collaborator. A failed call
// never fails a request; each endpoint substitutes its fixed fallback text.
type TextGenerator interface {
	GenerateText(ctx context.Context, instruction string) (string, error)
}

const enhanceInstructionTemplate = `You are an expert prompt engineer for AI image generation models.

Enhance the following simple prompt into a vivid, professional, high-quality image generation prompt.

Include:
- Visual style
- Lighting and mood
- Color palette
- Composition
- Quality keywords (cinematic, ultra-detailed, professional)

Simple prompt:
%s

Respond with ONLY the enhanced prompt.
Limit to 1-2 sentences.`

const enhanceFallback = "A vivid, ultra-detailed, professionally composed scene with cinematic " +
	"lighting, a rich color palette and balanced framing, rendered in high quality."

const safetyInstructionTemplate = `You are a helpful assistant.
Suggest commonly used safety gear for the activity below.

Activity: %s

Give 2-3 short lines.`

const safetyFallback = "For safety, use a certified helmet, gloves, and protective clothing. " +
	"Ensure visibility with reflective gear and follow basic safety precautions."

const postureInstruction = `You are a posture correction expert.

Analyze the posture and give 3 short improvement tips.
Keep it beginner-friendly.`

const postureFallback = "• Keep your spine straight and shoulders relaxed\n" +
	"• Adjust screen height to eye level\n" +
	"• Avoid bending your neck forward for long periods"

// ToolHandler implements the mocked creative-tool endpoints. Each one
// validates its inputs, appends exactly one history record for the caller,
// and returns the static placeholder image URL.
type ToolHandler struct {
	history      services.HistoryServiceProvider
	generator    TextGenerator
	generatedDir string
	baseURL      string
}

// NewToolHandler creates a new ToolHandler. Uploaded files are stored under
// generatedDir; baseURL is the public prefix for the returned image URLs.
func NewToolHandler(history services.HistoryServiceProvider, generator TextGenerator, generatedDir, baseURL string) *ToolHandler {
	return &ToolHandler{
		history:      history,
		generator:    generator,
		generatedDir: generatedDir,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

func (h *ToolHandler) imageURL(filename string) string {
	return h.baseURL + "/generated/" + filename
}

// saveUpload stores one uploaded file under a collision-free name and
// returns the stored filename.
func (h *ToolHandler) saveUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	name := uuid.NewString() + "_" + filepath.Base(header.Filename)
	dst, err := os.Create(filepath.Join(h.generatedDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return name, nil
}

// hasUpload reports whether the multipart form carries the given file field.
func hasUpload(r *http.Request, field string) bool {
	if r.MultipartForm == nil {
		return false
	}
	return len(r.MultipartForm.File[field]) > 0
}

// appendHistory writes the ledger entry for one tool call.
func (h *ToolHandler) appendHistory(w http.ResponseWriter, record models.HistoryRecord) bool {
	if _, err := h.history.Append(record); err != nil {
		log.Error().Err(err).Str("tool", record.ToolName).Int64("user_id", record.UserID).
			Msg("Failed to append history record")
		respondError(w, http.StatusInternalServerError, "Failed to save history")
		return false
	}
	return true
}

// generateWithFallback asks the collaborator for text and substitutes the
// given fallback on any failure.
func (h *ToolHandler) generateWithFallback(ctx context.Context, instruction, fallback string) string {
	text, err := h.generator.GenerateText(ctx, instruction)
	if err != nil {
		log.Warn().Err(err).Msg("Text generation failed, using fallback")
		return fallback
	}
	return text
}

func strPtr(s string) *string {
	return &s
}

// PromptToImage mocks prompt-based image generation.
func (h *ToolHandler) PromptToImage(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload struct {
		Prompt string `json:"prompt"`
		Style  string `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Prompt == "" {
		respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if payload.Style == "" {
		payload.Style = "clean"
	}

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:  "prompt_to_image",
		InputText: strPtr(payload.Prompt),
		OutputImg: strPtr(placeholderImage),
		UserID:    user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"prompt":    payload.Prompt,
		"style":     payload.Style,
		"image_url": h.imageURL(placeholderImage),
	})
}

// ImageToStyle mocks restyling an uploaded image.
func (h *ToolHandler) ImageToStyle(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	if !hasUpload(r, "image") {
		respondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	prompt := r.FormValue("prompt")
	style := r.FormValue("style")
	if style == "" {
		style = "cinematic"
	}

	filename, err := h.saveUpload(r, "image")
	if err != nil {
		log.Error().Err(err).Msg("Failed to save uploaded image")
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
		return
	}

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:    "image_to_style",
		InputText:   strPtr(prompt),
		InputImages: []string{filename},
		OutputImg:   strPtr(placeholderImage),
		UserID:      user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Image styled successfully (mock)",
		"prompt":    prompt,
		"style":     style,
		"image_url": h.imageURL(placeholderImage),
	})
}

// SpecsTryon mocks trying on a pair of glasses.
func (h *ToolHandler) SpecsTryon(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	if !hasUpload(r, "face") || !hasUpload(r, "specs") {
		respondError(w, http.StatusBadRequest, "Face image and Specs image are required")
		return
	}
	prompt := r.FormValue("prompt")

	faceName, err := h.saveUpload(r, "face")
	if err != nil {
		log.Error().Err(err).Msg("Failed to save face image")
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
		return
	}
	specsName, err := h.saveUpload(r, "specs")
	if err != nil {
		log.Error().Err(err).Msg("Failed to save specs image")
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
		return
	}

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:    "specs_tryon",
		InputText:   strPtr(prompt),
		InputImages: []string{faceName, specsName},
		OutputImg:   strPtr(placeholderImage),
		UserID:      user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Specs try-on successful (mock)",
		"prompt":    prompt,
		"image_url": h.imageURL(placeholderImage),
	})
}

// HaircutPreview mocks previewing a haircut sample on the caller's photo.
func (h *ToolHandler) HaircutPreview(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	if !hasUpload(r, "you") || !hasUpload(r, "sample") {
		respondError(w, http.StatusBadRequest, "Both user image and haircut sample are required")
		return
	}
	prompt := r.FormValue("prompt")

	userName, err := h.saveUpload(r, "you")
	if err != nil {
		log.Error().Err(err).Msg("Failed to save user image")
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
		return
	}
	sampleName, err := h.saveUpload(r, "sample")
	if err != nil {
		log.Error().Err(err).Msg("Failed to save sample image")
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
		return
	}

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:    "haircut_preview",
		InputText:   strPtr(prompt),
		InputImages: []string{userName, sampleName},
		OutputImg:   strPtr(placeholderImage),
		UserID:      user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Haircut preview generated (mock)",
		"prompt":    prompt,
		"image_url": h.imageURL(placeholderImage),
	})
}

// InstaStoryTemplate mocks rendering overlay text onto a story template.
func (h *ToolHandler) InstaStoryTemplate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload struct {
		OverlayText string `json:"overlay_text"`
		Template    string `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.OverlayText == "" {
		respondError(w, http.StatusBadRequest, "Overlay text is required")
		return
	}
	if payload.Template == "" {
		payload.Template = "minimal"
	}

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:  "insta_story",
		InputText: strPtr(payload.OverlayText),
		OutputImg: strPtr(placeholderImage),
		UserID:    user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Insta story generated (mock)",
		"overlay_text": payload.OverlayText,
		"template":     payload.Template,
		"image_url":    h.imageURL(placeholderImage),
	})
}

// EnhancePrompt rewrites a short prompt into a richer one via the
// text-generation collaborator.
func (h *ToolHandler) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	prompt := strings.TrimSpace(payload.Prompt)
	if prompt == "" {
		respondError(w, http.StatusBadRequest, "Prompt cannot be empty")
		return
	}

	instruction := fmt.Sprintf(enhanceInstructionTemplate, prompt)
	enhanced := h.generateWithFallback(r.Context(), instruction, enhanceFallback)

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:   "prompt_enhancer",
		InputText:  strPtr(prompt),
		OutputText: strPtr(enhanced),
		UserID:     user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"original_prompt": prompt,
		"enhanced_prompt": enhanced,
		"image_url":       h.imageURL(placeholderImage),
	})
}

// InstaPostGenerator mocks generating a caption, hashtags and tips for a post.
// Both the image and the prompt are optional.
func (h *ToolHandler) InstaPostGenerator(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	prompt := strings.TrimSpace(r.FormValue("prompt"))
	hasText := prompt != ""
	hasImage := hasUpload(r, "image")

	var inputImages []string
	if hasImage {
		filename, err := h.saveUpload(r, "image")
		if err != nil {
			log.Error().Err(err).Msg("Failed to save uploaded image")
			respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
			return
		}
		inputImages = []string{filename}
	}

	var caption, hashtags, tips string
	if hasImage && !hasText {
		caption = "A peaceful moment captured to inspire calm and clarity."
		hashtags = "#VisualStory #Aesthetic #InstaPost"
		tips = "📸 Use natural light images for better reach\n" +
			"⏰ Best time: 7-9 AM\n" +
			"💬 Ask a question to boost engagement"
	} else {
		caption = "In the quiet of the Himalayas, devotion and peace flow together. " +
			"this post reminds us that peace begins within."
		hashtags = "#GanpatiBappa #Faith #InnerPeace"
		tips = "📍 Location-based hashtags help reach more people"
	}

	combined := fmt.Sprintf("Caption:\n%s\n\nHashtags:\n%s\n\nTips:\n%s", caption, hashtags, tips)

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:    "insta_post",
		InputText:   strPtr(prompt),
		InputImages: inputImages,
		OutputText:  strPtr(combined),
		OutputImg:   strPtr(placeholderImage),
		UserID:      user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"image_url": h.imageURL(placeholderImage),
		"caption":   caption,
		"hashtags":  hashtags,
		"tips":      tips,
	})
}

// SafetyGear mocks a safety-gear try-on and asks the collaborator for advice
// text matching the activity.
func (h *ToolHandler) SafetyGear(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	if !hasUpload(r, "image") {
		respondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	filename, err := h.saveUpload(r, "image")
	if err != nil {
		log.Error().Err(err).Msg("Failed to save uploaded image")
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
		return
	}

	instruction := fmt.Sprintf(safetyInstructionTemplate, prompt)
	advice := h.generateWithFallback(r.Context(), instruction, safetyFallback)

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:    "safety_gear",
		InputText:   strPtr(prompt),
		InputImages: []string{filename},
		OutputText:  strPtr(advice),
		OutputImg:   strPtr(placeholderImage),
		UserID:      user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"advice":    advice,
		"image_url": h.imageURL(placeholderImage),
	})
}

// StoryImageGenerater mocks generating a story image from a prompt. The
// route spelling matches the consuming frontend.
func (h *ToolHandler) StoryImageGenerater(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	prompt := strings.TrimSpace(payload.Prompt)
	if prompt == "" {
		respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:  "story_image",
		InputText: strPtr(prompt),
		OutputImg: strPtr(placeholderImage),
		UserID:    user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"prompt":    prompt,
		"image_url": h.imageURL(placeholderImage),
	})
}

// PostureAnalyze mocks posture analysis and asks the collaborator for
// improvement tips.
func (h *ToolHandler) PostureAnalyze(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	if !hasUpload(r, "image") {
		respondError(w, http.StatusBadRequest, "Image is required")
		return
	}

	filename, err := h.saveUpload(r, "image")
	if err != nil {
		log.Error().Err(err).Msg("Failed to save uploaded image")
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded image")
		return
	}

	suggestions := h.generateWithFallback(r.Context(), postureInstruction, postureFallback)

	ok := h.appendHistory(w, models.HistoryRecord{
		ToolName:    "posture_analyzer",
		InputImages: []string{filename},
		OutputText:  strPtr(suggestions),
		OutputImg:   strPtr(placeholderImage),
		UserID:      user.ID,
	})
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":             true,
		"corrected_image_url": h.imageURL(placeholderImage),
		"suggestions":         suggestions,
		"scores": map[string]int{
			"spine":    80,
			"neck":     45,
			"shoulder": 70,
		},
	})
}

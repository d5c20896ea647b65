package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"

	// The upstream serves jpeg/png/gif previews; register their decoders.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

type ResolveSelectionUseCase struct {
	media port.MediaFetcherPort
}

func NewResolveSelectionUseCase(media port.MediaFetcherPort) *ResolveSelectionUseCase {
	return &ResolveSelectionUseCase{media: media}
}

// Execute extracts the prompts via the ordered alias lists, builds the info
// blob from the remaining metadata and, when requested, materializes the
// item's media. Any fetch or decode failure degrades to the placeholder
// image; selection resolution itself never fails over media problems.
func (uc *ResolveSelectionUseCase) Execute(ctx context.Context, sel domain.Selection) (domain.SelectionResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ResolveSelection"})

	meta := sel.Item.Meta()
	result := domain.SelectionResult{
		PositivePrompt: domain.FirstString(meta, domain.PositivePromptKeys...),
		NegativePrompt: domain.FirstString(meta, domain.NegativePromptKeys...),
		Info:           buildInfoBlob(meta),
		ImagePNG:       placeholderPNG(),
	}

	url := sel.Item.URL()
	if sel.DownloadImage && url != "" {
		data, err := uc.media.FetchImage(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return domain.SelectionResult{}, ctx.Err()
			}
			logger.Warn("Image download failed, serving placeholder", port.Fields{
				"url":   url,
				"error": err.Error(),
			})
			return result, nil
		}
		if encoded, err := reencodePNG(data); err == nil {
			result.ImagePNG = encoded
		} else {
			logger.Warn("Image decode failed, serving placeholder", port.Fields{
				"url":   url,
				"error": err.Error(),
			})
		}
	}

	return result, nil
}

// buildInfoBlob serializes the metadata minus all prompt aliases. Falls back
// to an empty-object string on marshal failure.
func buildInfoBlob(meta map[string]any) string {
	info := make(map[string]any, len(meta))
	for k, v := range meta {
		info[k] = v
	}
	for _, k := range domain.PromptMetaKeys {
		delete(info, k)
	}

	blob, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return "{}"
	}
	return string(blob)
}

// reencodePNG normalizes downloaded media to PNG.
func reencodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// placeholderPNG is the documented single-pixel stand-in produced when the
// image was not requested or could not be fetched.
func placeholderPNG() []byte {
	var buf bytes.Buffer
	// Encoding a 1x1 RGBA image cannot fail on a bytes.Buffer.
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	return buf.Bytes()
}

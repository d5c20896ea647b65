package domain

import "strings"

// Key-alias lists used for prompt extraction and filtering. Order matters:
// the first non-empty alias wins everywhere these are consulted.
var (
	PositivePromptKeys = []string{"prompt", "Prompt", "positive", "textPrompt"}
	NegativePromptKeys = []string{"negativePrompt", "NegativePrompt", "negative"}

	videoMetaKeys = []string{"video", "videoUrl", "mp4", "mp4Url"}
	videoSuffixes = []string{".mp4", ".webm"}
)

// PromptMetaKeys is the union of positive and negative prompt aliases,
// removed from the meta mapping when building the selection info blob.
var PromptMetaKeys = append(append([]string{}, PositivePromptKeys...), NegativePromptKeys...)

func hasVideoSuffix(s string) bool {
	s = strings.ToLower(s)
	for _, suf := range videoSuffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// IsVideo reports whether the item points at a video: either its URL or the
// first non-empty known video meta field ends with a video extension.
func IsVideo(it Item) bool {
	if hasVideoSuffix(it.URL()) {
		return true
	}
	return hasVideoSuffix(FirstString(it.Meta(), videoMetaKeys...))
}

// HasPositivePrompt reports whether any positive-prompt alias holds a
// non-blank string.
func HasPositivePrompt(it Item) bool {
	m := it.Meta()
	for _, k := range PositivePromptKeys {
		if strings.TrimSpace(StringifyScalar(m[k])) != "" {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether q is a case-insensitive substring of the
// item's searchable text: id, url, prompt fields, user name and model name,
// concatenated in a fixed order. An empty query matches everything.
func MatchesQuery(it Item, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(strings.TrimSpace(q))
	m := it.Meta()
	buf := strings.ToLower(strings.Join([]string{
		it.ID(),
		it.URL(),
		StringifyScalar(m["prompt"]),
		StringifyScalar(m["Prompt"]),
		StringifyScalar(m["textPrompt"]),
		StringifyScalar(m["negativePrompt"]),
		StringifyScalar(m["NegativePrompt"]),
		it.Username(),
		FirstString(m, "Model", "model"),
	}, " | "))
	return strings.Contains(buf, q)
}

// FilterOptions is the resolved per-call filter configuration applied to
// every fetched item.
type FilterOptions struct {
	IncludeVideos bool
	HideNoPrompt  bool
	VideosOnly    bool
	Query         string
}

// Accept applies the filter rules in order, short-circuiting on the first
// failing one.
func (o FilterOptions) Accept(it Item) bool {
	if o.VideosOnly {
		if !IsVideo(it) {
			return false
		}
	} else if !o.IncludeVideos && IsVideo(it) {
		return false
	}
	if o.HideNoPrompt && !HasPositivePrompt(it) {
		return false
	}
	if o.Query != "" && !MatchesQuery(it, o.Query) {
		return false
	}
	return true
}

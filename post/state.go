package post

// State keys threaded through a single pipeline run. Input keys are seeded
// before the run; each output key is written by exactly one node.
const (
	// Input keys.
	KeyUserPrompt    = "user_prompt"
	KeyContentStyle  = "content_style"
	KeyContentFormat = "content_format"
	KeyGenerateText  = "generate_text"
	KeyGenerateImage = "generate_image"
	KeyGenerateVideo = "generate_video"
	KeyGenerateMeme  = "generate_meme"

	// Output keys.
	KeyNewsArticles     = "news_articles"
	KeyGeneratedText    = "generated_text"
	KeyGeneratedImage   = "generated_image_url"
	KeySelectedTemplate = "selected_template"
	KeyGeneratedMeme    = "generated_meme_url"
	KeyGeneratedVideo   = "generated_video_url"
)

// Sentinel values for output keys. Every output key is always present after
// its node has run; these distinguish "nothing was asked for" from "we tried
// and failed" from "an upstream artifact this step needs never materialized".
const (
	// SentinelNotRequested marks an artifact whose feature flag was false.
	SentinelNotRequested = "not requested"

	// SentinelFailed marks an artifact whose provider call failed or
	// returned structurally invalid data.
	SentinelFailed = "generation failed"

	// SentinelUnavailable marks an artifact that could not be attempted
	// because an upstream artifact it requires is missing or failed.
	SentinelUnavailable = "not available"
)

// IsSentinel reports whether value is one of the reserved sentinel strings
// rather than a real artifact.
func IsSentinel(value string) bool {
	switch value {
	case SentinelNotRequested, SentinelFailed, SentinelUnavailable:
		return true
	}
	return false
}

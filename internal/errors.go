package internal

import "errors"

// Sentinel errors, checked with errors.Is
var (
	ErrAPIKeyNotFound    = errors.New("api key file not found")
	ErrAPIKeyEmpty       = errors.New("api key file is empty")
	ErrInvalidAPIKey     = errors.New("invalid api key or access forbidden")
	ErrQuotaExceeded     = errors.New("api quota exceeded")
	ErrInvalidDate       = errors.New("invalid date format")
	ErrInvalidDateWindow = errors.New("invalid date window")
	ErrInvalidVideoType  = errors.New("invalid video type")
	ErrInvalidCategory   = errors.New("unknown or unassignable video category")
	ErrNoVideos          = errors.New("no videos to save")
	ErrAborted           = errors.New("aborted by user")
	ErrOpenAIKeyMissing  = errors.New("OpenAI API key is required - set openai_api_key in config.toml or OPENAI_API_KEY")
)

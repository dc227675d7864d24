package openai

const ChatURL = "https://api.openai.com/v1/chat/completions"

const (
	remainingTokensHeader = "x-ratelimit-remaining-tokens"
	resetTokensHeader     = "x-ratelimit-reset-tokens"
)

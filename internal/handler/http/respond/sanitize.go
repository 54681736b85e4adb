package respond

import (
	"regexp"
)

// Replacement order matters: the Anthropic pattern is a special case of the OpenAI one.
var (
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-(?:proj-)?[a-zA-Z0-9\-_]{10,}`)
	googleKeyPattern    = regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)
	bearerPattern       = regexp.MustCompile(`(?i)(bearer\s+)[^\s"']+`)
	keyParamPattern     = regexp.MustCompile(`([?&]key=)[^&\s"']+`)

	// Credentials embedded in a base URL such as OPENAI_BASE_URL.
	urlPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError returns the error message with provider credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return sanitize(err.Error())
}

func sanitize(msg string) string {
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = googleKeyPattern.ReplaceAllString(msg, "AIza****")
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	msg = keyParamPattern.ReplaceAllString(msg, "${1}****")
	msg = urlPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}

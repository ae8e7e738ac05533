package middleware

import "regexp"

// Severe patterns escalate the run; profanity is logged and passes through.
var (
	flaggedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(threat|threaten|kill|harm|attack|bomb)\b`),
		regexp.MustCompile(`(?i)\b(abuse|harass)\b`),
	}
	profanityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(damn|hell|crap)\b`),
	}
)

// ModerationReply is the fixed response sent when content is flagged.
const ModerationReply = "Your message has been flagged for review. A staff member will " +
	"follow up with you directly. If you are in an emergency, " +
	"please call 911 immediately."

// ModerationVerdict is the outcome of screening one patient message.
type ModerationVerdict struct {
	Flagged   bool
	Profanity bool
}

// ScreenMessage checks the message against the moderation patterns.
func ScreenMessage(text string) ModerationVerdict {
	var v ModerationVerdict
	for _, re := range flaggedPatterns {
		if re.MatchString(text) {
			v.Flagged = true
			return v
		}
	}
	for _, re := range profanityPatterns {
		if re.MatchString(text) {
			v.Profanity = true
			break
		}
	}
	return v
}

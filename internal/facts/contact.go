package facts

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+33|0033|\b0)\s*[1-9](?:[\s.-]?\d{2}){4}\b|\+\d{10,14}\b`)

	channelMentions = []struct {
		pattern *regexp.Regexp
		channel ContactChannel
	}{
		{regexp.MustCompile(`\bwhats ?app\b`), ChannelWhatsApp},
		{regexp.MustCompile(`\b(?:e-?mail|mail|courriel)\b`), ChannelEmail},
		{regexp.MustCompile(`\b(?:appel|appelez|telephone|tel)\b`), ChannelPhone},
		{regexp.MustCompile(`\bsms\b`), ChannelSMS},
	}
)

// parseContact infers the preferred channel: an email address first, then a
// phone number, then an explicit channel name.
func parseContact(raw, text string) (Contact, bool) {
	if m := emailPattern.FindString(raw); m != "" {
		return Contact{Channel: ChannelEmail, Value: strings.ToLower(m)}, true
	}
	if m := phonePattern.FindString(raw); m != "" {
		return Contact{Channel: ChannelPhone, Value: compactPhone(m)}, true
	}
	for _, c := range channelMentions {
		if c.pattern.MatchString(text) {
			return Contact{Channel: c.channel}, true
		}
	}
	return Contact{}, false
}

func compactPhone(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '+' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}

// parseMedical returns the first raw sentence mentioning a contraindication.
func parseMedical(raw string) (string, bool) {
	for _, s := range sentences(raw) {
		if _, ok := firstTerm(medicalVocab, normalize(s)); ok {
			return s, true
		}
	}
	return "", false
}

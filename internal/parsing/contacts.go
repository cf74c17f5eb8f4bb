package parsing

import (
	"regexp"

	"github.com/jonathan/interview-agents/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
	phonePattern    = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`linkedin\.com/in/[A-Za-z0-9\-]+`)
	githubPattern   = regexp.MustCompile(`github\.com/[A-Za-z0-9\-]+`)
)

// ExtractContacts harvests emails, phone numbers and social handles from CV
// text. Results preserve input order; duplicates are allowed.
func ExtractContacts(text string) types.ContactInfo {
	return types.ContactInfo{
		Emails:   matchAll(emailPattern, text),
		Phones:   matchAll(phonePattern, text),
		LinkedIn: matchAll(linkedinPattern, text),
		GitHub:   matchAll(githubPattern, text),
	}
}

func matchAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

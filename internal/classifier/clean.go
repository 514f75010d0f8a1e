package classifier

import (
	"regexp"
	"strings"
)

var (
	urlRE       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagRE   = regexp.MustCompile(`<.*?>`)
	punctRE     = regexp.MustCompile(`[!"#$%&'()*+,\-./:;<=>?@\[\\\]^_` + "`" + `{|}~]`)
	lineBreakRE = regexp.MustCompile(`\n`)
	numberedRE  = regexp.MustCompile(`\w*\d\w*`)
)

// Clean normalizes raw text into the form the model was trained on.
// The transformation order matters for reproducibility: lowercase,
// strip URLs, strip HTML tags, strip punctuation, strip line breaks,
// strip tokens containing digits. Total over any input; the result may
// be empty.
func Clean(text string) string {
	text = strings.ToLower(text)
	text = urlRE.ReplaceAllString(text, "")
	text = htmlTagRE.ReplaceAllString(text, "")
	text = punctRE.ReplaceAllString(text, "")
	text = lineBreakRE.ReplaceAllString(text, "")
	text = numberedRE.ReplaceAllString(text, "")
	return text
}

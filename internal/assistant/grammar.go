package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const grammarPrompt = "Please correct the grammar and make this text more formal and professional for business communication. Keep the original meaning but improve clarity and professionalism. Format it as a proper business communication:\n\n\"%s\""

const businessTemplate = `Dear Team,

I would like to formally request your assistance with the following matter: %s

Please let me know if you need any additional information or clarification regarding this request.

Thank you for your time and consideration.

Best regards,
[Your Name]`

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// Applied in order.
var informalReplacements = []replacement{
	{regexp.MustCompile(`(?i)\bi\b`), "I"},
	{regexp.MustCompile(`\bdont\b`), "don't"},
	{regexp.MustCompile(`\bcant\b`), "can't"},
	{regexp.MustCompile(`\bwont\b`), "won't"},
	{regexp.MustCompile(`\bu\b`), "you"},
	{regexp.MustCompile(`\bur\b`), "your"},
	{regexp.MustCompile(`\bthru\b`), "through"},
	{regexp.MustCompile(`\btho\b`), "though"},
	{regexp.MustCompile(`\bcuz\b`), "because"},
	{regexp.MustCompile(`\bpls\b`), "please"},
	{regexp.MustCompile(`(\w+)\s*\.\s*(\w)`), "$1. $2"},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// GrammarRewriter turns informal text into a business message.
type GrammarRewriter struct {
	completer Completer
	logger    *zap.Logger
}

// NewGrammarRewriter accepts a nil completer, in which case only the local
// rules are used.
func NewGrammarRewriter(completer Completer, logger *zap.Logger) *GrammarRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrammarRewriter{completer: completer, logger: logger}
}

// Rewrite never fails; without a working completion service it applies the
// local corrections and wraps them in the business template.
func (g *GrammarRewriter) Rewrite(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if g.completer != nil {
		out, err := g.completer.Complete(ctx, fmt.Sprintf(grammarPrompt, text))
		if err == nil {
			return out
		}
		g.logger.Warn("grammar completion failed; using local correction", zap.Error(err))
	}
	return fmt.Sprintf(businessTemplate, CorrectInformal(text))
}

// CorrectInformal fixes common chat shorthand, sentence spacing and the
// leading capital.
func CorrectInformal(text string) string {
	out := text
	for _, r := range informalReplacements {
		out = r.pattern.ReplaceAllString(out, r.with)
	}
	if out != "" {
		first := out[:1]
		if isWordByte(first[0]) {
			out = strings.ToUpper(first) + out[1:]
		}
	}
	out = whitespaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

package robot

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

var leadingInlineFlags = regexp.MustCompile(`^\(\?[imsU]+\)`)

// addressedPattern anchors body to a leading mention of the bot. The built
// pattern accepts an optional "@", then the bot name or alias, then an
// optional ":" or ",", then whitespace, then the caller's body. The body's
// end stays unanchored.
//
// A leading inline flag group on body (for example "(?i)") is hoisted to the
// front so it also covers the name match. When both name and alias are set,
// the textually longer one is tried first so a short alias cannot
// prefix-match inside the longer name token.
func addressedPattern(body *regexp.Regexp, name, alias string, log *slog.Logger) (*regexp.Regexp, error) {
	src := body.String()

	flags := leadingInlineFlags.FindString(src)
	src = src[len(flags):]

	if strings.HasPrefix(src, "^") || strings.HasPrefix(src, `\A`) {
		// An anchored body can never follow the name prefix; the listener
		// behaves like a plain pattern and will not match addressed input.
		log.Warn("Anchored pattern registered as addressed; it will likely never match", "pattern", body.String())
	}

	names := []string{regexp.QuoteMeta(name)}
	if alias != "" {
		if len(alias) > len(name) {
			names = []string{regexp.QuoteMeta(alias), regexp.QuoteMeta(name)}
		} else {
			names = append(names, regexp.QuoteMeta(alias))
		}
	}

	pattern := fmt.Sprintf(`%s^\s*@?(?:%s)[:,]?\s*(?:%s)`, flags, strings.Join(names, "|"), src)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("build addressed pattern from %q: %w", body.String(), err)
	}

	return re, nil
}

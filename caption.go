package cmdkit

import "strings"

// CaptionRegistry renders Captioned errors into end-user-visible text by
// substituting "<name>" placeholders in a per-key template with the
// variables supplied at error-raise time.
type CaptionRegistry struct {
	templates map[CaptionKey]string
}

// NewCaptionRegistry returns a registry pre-populated with a default
// English template per built-in caption key.
func NewCaptionRegistry() *CaptionRegistry {
	r := &CaptionRegistry{templates: make(map[CaptionKey]string, len(defaultCaptionTemplates))}
	for k, v := range defaultCaptionTemplates {
		r.templates[k] = v
	}
	return r
}

// Set overrides (or adds) the template for key.
func (r *CaptionRegistry) Set(key CaptionKey, template string) {
	r.templates[key] = template
}

// Format renders err's caption template with its variables substituted in.
// An unregistered key falls back to the raw key string.
func (r *CaptionRegistry) Format(err Captioned) string {
	tpl, ok := r.templates[err.Caption()]
	if !ok {
		tpl = string(err.Caption())
	}
	out := tpl
	for name, value := range err.Variables() {
		out = strings.ReplaceAll(out, "<"+name+">", value)
	}
	return out
}

var defaultCaptionTemplates = map[CaptionKey]string{
	CaptionArgParseBoolean:        "Invalid boolean, expected true or false but found <input>",
	CaptionArgParseNumber:         "Invalid number <input>",
	CaptionArgParseChar:           "Invalid character near <input>",
	CaptionArgParseEnum:           "<input> is not a valid value",
	CaptionArgParseString:         "Invalid string near <input>",
	CaptionArgParseUUID:           "<input> is not a valid UUID",
	CaptionArgParseRegex:          "<input> does not match the expected pattern",
	CaptionArgParseColor:          "<input> is not a valid color",
	CaptionArgParseDuration:       "<input> is not a valid duration",
	CaptionArgParseDurationRange:  "<duration> is outside the allowed range [<min>, <max>]",
	CaptionArgParseAggregateMiss:  "Required argument is missing",
	CaptionArgParseAggregateComp:  "Failed to parse component argument near <input>",
	CaptionArgParseEither:         "Neither alternative matched <input>",
	CaptionFlagUnknown:            "Unknown flag --<flag>",
	CaptionFlagDuplicate:          "Flag --<flag> was already specified",
	CaptionFlagNoFlagStarted:      "Expected a flag near <input>",
	CaptionFlagMissingArgument:    "Flag --<flag> requires an argument",
	CaptionFlagNoPermission:       "You do not have permission to use --<flag>",
	CaptionExceptionUnexpected:    "An unexpected error occurred: <cause>",
	CaptionExceptionInvalidArg:    "Invalid argument near <input>",
	CaptionExceptionNoSuchCommand: "Unknown command: <input>",
	CaptionExceptionNoPermission:  "You do not have permission to do that",
	CaptionExceptionInvalidSender: "This command cannot be run by <actual>, expected <expected>",
	CaptionExceptionInvalidSyntax: "Invalid syntax, expected <expected>",
}

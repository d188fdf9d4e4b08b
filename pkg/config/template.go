package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTemplateFormat is returned for template formats other than yaml
// and toml.
var ErrUnknownTemplateFormat = errors.New("unknown template format")

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string
}

// templateField describes one commented entry of the template.
type templateField struct {
	comment string
	yaml    string
	toml    string
}

//nolint:gochecknoglobals // Read-only template definition.
var templateFields = []templateField{
	{
		comment: "How literal boundary strings compare text: ordinal or culture",
		yaml:    "comparison: ordinal",
		toml:    `comparison = "ordinal"`,
	},
	{
		comment: "Language used by culture comparison (BCP 47 tag)",
		yaml:    "# culture: und",
		toml:    `# culture = "und"`,
	},
	{
		comment: "What to do with execution errors. Kinds: end-of-stream, infinite-loop, closed, other. " +
			"Actions: propagate, suppress, wrap",
		yaml: "errors:\n  end-of-stream: wrap\n  # infinite-loop: propagate",
		toml: "[errors]\nend-of-stream = \"wrap\"\n# infinite-loop = \"propagate\"",
	},
	{
		comment: "Only read files with these extensions when walking directories (empty = all files)",
		yaml:    "# extensions:\n#   - .txt\n#   - .log",
		toml:    `# extensions = [".txt", ".log"]`,
	},
	{
		comment: "Input patterns to ignore (glob patterns)",
		yaml:    "# ignore:\n#   - \"vendor/**\"\n#   - \"*.bak\"",
		toml:    `# ignore = ["vendor/**", "*.bak"]`,
	},
	{
		comment: "Log level: debug, info, warn or error",
		yaml:    "# log_level: info",
		toml:    `# log_level = "info"`,
	},
	{
		comment: "Named patterns, used with: readpat read --name <name>",
		yaml:    "patterns:\n  value: \"S|'=' S. R>\"\n  # csv: \"(R|',' S.)*\"",
		toml:    "[patterns]\nvalue = \"S|'=' S. R>\"\n# csv = \"(R|',' S.)*\"",
	},
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "yaml"
	}
	if format != "yaml" && format != "toml" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplateFormat, opts.Format)
	}

	var buf strings.Builder
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	// TOML tables swallow every key after them, so they go last.
	fields := templateFields
	if format == "toml" {
		fields = tomlOrder(fields)
	}

	for _, field := range fields {
		buf.WriteString("\n# ")
		buf.WriteString(wrapComment(field.comment, commentWrapWidth))
		buf.WriteString("\n")
		if format == "toml" {
			buf.WriteString(field.toml)
		} else {
			buf.WriteString(field.yaml)
		}
		buf.WriteString("\n")
	}

	return []byte(buf.String()), nil
}

func tomlOrder(fields []templateField) []templateField {
	var plain, tables []templateField
	for _, field := range fields {
		if strings.HasPrefix(field.toml, "[") {
			tables = append(tables, field)
		} else {
			plain = append(plain, field)
		}
	}
	return append(plain, tables...)
}

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# readpat configuration
# Settings here are overridden by READPAT_* environment variables and flags.`
}

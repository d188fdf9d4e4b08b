package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/readpat/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Example:     plain,
			Dim:         plain,
		}
	}

	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ description .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ heading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ subcommand (rpad .CommandPath .CommandPathPadding) }} {{ description .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}{{if or .Runnable .HasSubCommands}}` + usageTemplate + `{{end}}`

// HelpFormatter renders styled help for Cobra commands. The color mode is
// taken from the --color flag when help is rendered.
type HelpFormatter struct {
	colorFlag string
	fallback  string
	writer    io.Writer
}

// NewHelpFormatter creates a help formatter. colorMode is used when the
// command has no --color flag; writer decides whether "auto" enables color.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorFlag: "color", fallback: colorMode, writer: writer}
}

// templates parses both help templates against styles.
func (h *HelpFormatter) templates(styles *HelpStyles) (*template.Template, *template.Template, error) {
	funcs := template.FuncMap{
		"command":                 styles.Command.Render,
		"heading":                 styles.Heading.Render,
		"subcommand":              styles.Subcommand.Render,
		"description":             styles.Description.Render,
		"example":                 styles.Example.Render,
		"flags":                   func(set any) string { return styleFlagUsages(styles, set) },
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}

	usage, err := template.New("usage").Funcs(funcs).Parse(usageTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("parse usage template: %w", err)
	}
	help, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("parse help template: %w", err)
	}
	return usage, help, nil
}

func (h *HelpFormatter) stylesFor(cmd *cobra.Command) *HelpStyles {
	mode := h.fallback
	if flag := cmd.Flags().Lookup(h.colorFlag); flag != nil {
		mode = flag.Value.String()
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, h.writer))
}

// ApplyToCommand installs styled help on cmd and, through inheritance, on
// all of its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cache := map[bool][2]*template.Template{}

	lookup := func(command *cobra.Command) (*template.Template, *template.Template, error) {
		styles := h.stylesFor(command)
		colored := styles.Heading.GetBold()
		if pair, ok := cache[colored]; ok {
			return pair[0], pair[1], nil
		}
		usage, help, err := h.templates(styles)
		if err != nil {
			return nil, nil, err
		}
		cache[colored] = [2]*template.Template{usage, help}
		return usage, help, nil
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		usage, _, err := lookup(command)
		if err != nil {
			return err
		}
		return usage.Execute(command.OutOrStderr(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		_, help, err := lookup(command)
		if err == nil {
			err = help.Execute(command.OutOrStdout(), command)
		}
		if err != nil {
			command.PrintErrln(err)
		}
	})
}

// styleFlagUsages styles the output of a pflag FlagSet's FlagUsages.
func styleFlagUsages(styles *HelpStyles, set any) string {
	usager, ok := set.(interface{ FlagUsages() string })
	if !ok {
		return ""
	}

	usages := strings.TrimSuffix(usager.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = styleFlagLine(styles, line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -f, --flag type   description" line. Lines
// that do not have that shape are returned unchanged.
func styleFlagLine(styles *HelpStyles, line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]

	// pflag separates the flag from its description with at least two spaces.
	flagPart, desc, found := strings.Cut(trimmed, "  ")
	if !found {
		return line
	}
	gap := len(desc) - len(strings.TrimLeft(desc, " "))
	desc = desc[gap:]

	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = styles.Dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = styles.Flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}

	return indent + strings.Join(tokens, " ") + strings.Repeat(" ", gap+2) + styles.Description.Render(desc)
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// newSyntaxTopic is a help-only command describing the pattern language.
func newSyntaxTopic() *cobra.Command {
	return &cobra.Command{
		Use:   "syntax",
		Short: "Read pattern syntax reference",
		Long: `A pattern is a sequence of operations and blocks. Each operation starts
with R (read: the text becomes a value) or S (skip: the text is dropped).

Operations:
  R.              one character
  R[n]            a block of n characters
  R>              the rest of the line; the line break is consumed
  R|b             text up to boundary b, which is left in place
  R+b             text up to and including boundary b
  R|b {&S}        text up to b, then b itself with the opposite kind

Boundaries:
  'text'          literal text; escapes are \', \\, \r and \n
  ~text~          literal text, case-insensitive
  /regex/         regular expression
  [b1?b2?...]     the earliest match of several boundaries

Blocks:
  (...)           a group of operations
  (...){n}        the group repeated n times
  (...)*          the group repeated until the text runs out; only allowed
                  as the last element of the pattern

Examples:
  S|'=' S. R>     the value of a key=value line
  (R|',' S.)*     comma-separated fields
  S[3] R[3]       characters 4 to 6`,
	}
}

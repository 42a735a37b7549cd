package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/squash/internal/config"
	"github.com/agbru/squash/internal/ui"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "url", "duration")
	IsFile    bool     // true if the flag takes a file path
	IsDir     bool     // true if the flag takes a directory
	IsFormat  bool     // true if values come from the format catalog (dynamic)
	BashGroup string   // flags with same non-empty BashGroup share a bash case entry
	Section   string   // fish comment section
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Help: "Show version information", Section: "Help and version"},
	{Long: "server", Help: "Compression service URL", ValueName: "url", Section: "Service"},
	{Long: "format", Short: "f", Help: "Target format", IsFormat: true, ValueName: "format", Section: "Service"},
	{Long: "timeout", Help: "Compression request limit", Values: []string{"0", "30s", "1m", "5m"}, ValueName: "duration", BashGroup: "duration", Section: "Service"},
	{Long: "catalog-timeout", Help: "Format list request limit", Values: []string{"5s", "10s", "30s"}, ValueName: "duration", BashGroup: "duration", Section: "Service"},
	{Long: "max-size", Help: "Advisory size in bytes", ValueName: "bytes", Section: "Service"},
	{Long: "download", Help: "Save the compressed file into a directory", IsDir: true, ValueName: "dir", Section: "Output options"},
	{Long: "output", Short: "o", Help: "JSON report file", IsFile: true, ValueName: "file", Section: "Output options"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts", Section: "Output options"},
	{Long: "no-color", Help: "Disable colored output", Section: "Output options"},
	{Long: "theme", Help: "Color theme", Values: ui.ThemeNames, ValueName: "theme", Section: "Output options"},
	{Long: "tui", Help: "Force the interactive dashboard", Section: "Modes"},
	{Long: "interactive", Short: "i", Help: "Line-oriented interactive mode", Section: "Modes"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level", Section: "Diagnostics"},
	{Long: "log-file", Help: "Rotating log file", IsFile: true, ValueName: "file", Section: "Diagnostics"},
	{Long: "metrics-addr", Help: "Prometheus metrics address", ValueName: "addr", Section: "Diagnostics"},
	{Long: "otlp-endpoint", Help: "OTLP/HTTP trace collector", ValueName: "host:port", Section: "Diagnostics"},
	{Long: "config", Help: "YAML config file", IsFile: true, ValueName: "file", Section: "Diagnostics"},
	{Long: "completion", Help: "Generate completion script", Values: config.CompletionShells, ValueName: "shell", Section: "Completion"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - formats: Format ids offered for -format, "auto" included.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, formats []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, formats)
	case "zsh":
		return generateZshCompletion(out, formats)
	case "fish":
		return generateFishCompletion(out, formats)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, formats)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func flagPatterns(f FlagCompletion) []string {
	var patterns []string
	if f.Long != "" {
		patterns = append(patterns, "--"+f.Long, "-"+f.Long)
	}
	if f.Short != "" {
		patterns = append(patterns, "-"+f.Short)
	}
	return patterns
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, formats []string) error {
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	type caseEntry struct {
		patterns []string
		body     string
	}
	var cases []caseEntry
	seenGroups := map[string]bool{}
	for _, f := range flagRegistry {
		switch {
		case f.IsFormat:
			cases = append(cases, caseEntry{flagPatterns(f), `COMPREPLY=( $(compgen -W "${formats}" -- "${cur}") )`})
		case f.IsDir:
			cases = append(cases, caseEntry{flagPatterns(f), `COMPREPLY=( $(compgen -d -- "${cur}") )`})
		case f.IsFile:
			cases = append(cases, caseEntry{flagPatterns(f), `COMPREPLY=( $(compgen -f -- "${cur}") )`})
		case f.BashGroup != "":
			if seenGroups[f.BashGroup] {
				continue
			}
			seenGroups[f.BashGroup] = true
			var patterns []string
			for _, gf := range flagRegistry {
				if gf.BashGroup == f.BashGroup {
					patterns = append(patterns, flagPatterns(gf)...)
				}
			}
			cases = append(cases, caseEntry{patterns, fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))})
		case len(f.Values) > 0:
			cases = append(cases, caseEntry{flagPatterns(f), fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))})
		case f.ValueName != "":
			cases = append(cases, caseEntry{flagPatterns(f), `return 0`})
		}
	}

	var caseBody strings.Builder
	for _, c := range cases {
		caseBody.WriteString("        ")
		caseBody.WriteString(strings.Join(c.patterns, "|"))
		caseBody.WriteString(")\n            ")
		caseBody.WriteString(c.body)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for squash
# Add this to your ~/.bashrc or ~/.bash_completion

_squash_completions() {
    local cur prev opts formats
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="%s"

    # Known formats
    formats="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi

    # Files to compress
    COMPREPLY=( $(compgen -f -- "${cur}") )
}

complete -o filenames -F _squash_completions squash
`, strings.Join(opts, " "), strings.Join(formats, " "), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, formats []string) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, `        '*:file:_files'`)

	script := fmt.Sprintf(`#compdef squash

# Zsh completion script for squash
# Add this to your ~/.zshrc or place in $fpath

_squash() {
    local -a formats
    formats=(%s)

    _arguments -s \
%s
}

_squash "$@"
`, strings.Join(formats, " "), strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsDir:
		valueSuffix = fmt.Sprintf(":%s:_files -/", f.ValueName)
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsFormat:
		valueSuffix = fmt.Sprintf(":%s:($formats)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, formats []string) error {
	lines := []string{
		"# Fish completion script for squash",
		"# Add this to ~/.config/fish/completions/squash.fish",
		"",
	}

	var sections []string
	bySection := map[string][]FlagCompletion{}
	for _, f := range flagRegistry {
		if _, ok := bySection[f.Section]; !ok {
			sections = append(sections, f.Section)
		}
		bySection[f.Section] = append(bySection[f.Section], f)
	}

	formatList := strings.Join(formats, " ")
	for _, name := range sections {
		lines = append(lines, "# "+name)
		for _, f := range bySection[name] {
			lines = append(lines, fishCompleteLine(f, formatList))
		}
		lines = append(lines, "")
	}

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, formatList string) string {
	parts := []string{"complete -c squash"}
	if f.Short != "" {
		parts = append(parts, fmt.Sprintf("-s %s", f.Short))
	}
	if f.Long != "" {
		parts = append(parts, fmt.Sprintf("-o %s", f.Long))
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsDir:
		parts = append(parts, "-xa '(__fish_complete_directories)'")
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsFormat:
		parts = append(parts, fmt.Sprintf("-xa '%s'", formatList))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer, formats []string) error {
	var optionEntries []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '-%s'; Description = '%s' }", f.Short, f.Help))
		}
		optionEntries = append(optionEntries, fmt.Sprintf(
			"        @{Name = '-%s'; Description = '%s' }", f.Long, f.Help))
	}

	psSwitchEntry := func(f FlagCompletion, values string) string {
		return fmt.Sprintf(`        { $_ -in '-%s', '--%s' } {
            %s | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, f.Long, values)
	}

	var switchEntries []string
	for _, f := range flagRegistry {
		switch {
		case f.IsFormat:
			switchEntries = append(switchEntries, psSwitchEntry(f, "$squashFormats"))
		case len(f.Values) > 0:
			switchEntries = append(switchEntries, psSwitchEntry(f, "@("+psQuote(f.Values)+")"))
		}
	}

	script := fmt.Sprintf(`# PowerShell completion script for squash
# Add this to your $PROFILE

$squashFormats = @(%s)

Register-ArgumentCompleter -CommandName 'squash' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    # Context-aware completions
    switch ($prevElement) {
%s
    }

    # Default: show options
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, psQuote(formats), strings.Join(optionEntries, "\n"), strings.Join(switchEntries, "\n"))

	_, err := fmt.Fprint(out, script)
	return err
}

func psQuote(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("'%s'", v)
	}
	return strings.Join(quoted, ", ")
}

package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var notFound *RootNotFoundError
	if As(err, &notFound) {
		return formatRootNotFoundError(notFound)
	}

	var fileErr *FileNotFoundError
	if As(err, &fileErr) {
		return formatFileNotFoundError(fileErr)
	}

	var startErr *StartPathError
	if As(err, &startErr) {
		return formatStartPathError(startErr)
	}

	var patErr *PatternError
	if As(err, &patErr) {
		return formatPatternError(patErr)
	}

	var policyErr *PolicyError
	if As(err, &policyErr) {
		return formatPolicyError(policyErr)
	}

	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	// Default: return the error message as-is
	return err.Error()
}

// formatRootNotFoundError formats a RootNotFoundError with actionable guidance.
func formatRootNotFoundError(err *RootNotFoundError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "No project root found in %s or any of its parent directories.\n", err.Start)

	if len(err.Criteria) > 0 {
		b.WriteString("\nCriteria tried, in order:\n")
		for _, c := range err.Criteria {
			fmt.Fprintf(&b, "  • %s\n", c)
		}
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Run from inside a project, or pass a start directory\n")
	b.WriteString("  • Select another policy with --criterion (see 'projroot list')\n")
	b.WriteString("  • Mark the project root with 'projroot set-here'\n")

	return b.String()
}

// formatFileNotFoundError formats a FileNotFoundError with actionable guidance.
func formatFileNotFoundError(err *FileNotFoundError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File not found: %s\n", err.Path)
	fmt.Fprintf(&b, "\nThe project root was found at %s, but the path below it does not exist.\n", err.Root)
	b.WriteString("Drop --must-exist to print the path anyway.\n")

	return b.String()
}

// formatStartPathError formats a StartPathError with actionable guidance.
func formatStartPathError(err *StartPathError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cannot start the search at %s\n", err.Path)
	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check that the path exists and is readable\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatPatternError formats a PatternError with actionable guidance.
func formatPatternError(err *PatternError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Malformed %s pattern: %q\n", err.Kind, err.Pattern)

	switch err.Kind {
	case "glob":
		b.WriteString("\nGlob patterns support *, **, ?, [class] and {alt,ernatives}.\n")
	case "regex":
		b.WriteString("\nRegular expressions use RE2 syntax (https://github.com/google/re2/wiki/Syntax).\n")
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatPolicyError formats a PolicyError with actionable guidance.
func formatPolicyError(err *PolicyError) string {
	var b strings.Builder

	if err.Entry != "" {
		fmt.Fprintf(&b, "Policy error in '%s' (entry '%s'): %s\n", err.Policy, err.Entry, err.Message)
	} else {
		fmt.Fprintf(&b, "Policy error in '%s': %s\n", err.Policy, err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Run 'projroot list' to see the available policies\n")
	b.WriteString("  • Check the [policies] section of ~/.config/projroot/config.toml or .projroot.toml\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check your config file: ~/.config/projroot/config.toml\n")
	b.WriteString("  • Run 'projroot config init --force' to write a fresh default config\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

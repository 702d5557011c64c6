package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/stigoleg/idle-nudge/internal/config"
)

// gen-docs writes shell completions and a man page from config.Flags.

const (
	appName        = "idlenudge"
	appDescription = "Nudges the mouse pointer after a period of inactivity so the session stays active."
)

var helpFlag = config.Flag{Long: "help", Short: "h", Usage: "Show help message"}

func main() {
	flags := append(append([]config.Flag{}, config.Flags...), helpFlag)

	files := map[string]string{
		filepath.Join("docs", "completions", appName+".bash"): bashCompletion(flags),
		filepath.Join("docs", "completions", "_"+appName):     zshCompletion(flags),
		filepath.Join("docs", "completions", appName+".fish"): fishCompletion(flags),
		filepath.Join("man", appName+".1"):                    manPage(flags),
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Println("wrote", path)
	}
}

func bashCompletion(flags []config.Flag) string {
	var b strings.Builder
	b.WriteString("_" + appName + "() {\n")
	b.WriteString("  local cur prev opts\n")
	b.WriteString("  COMPREPLY=()\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")

	var opts []string
	for _, f := range flags {
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		opts = append(opts, "--"+f.Long)
	}

	b.WriteString("  case \"${prev}\" in\n")
	for _, f := range flags {
		if len(f.Values) == 0 {
			continue
		}
		names := "--" + f.Long
		if f.Short != "" {
			names = "-" + f.Short + "|" + names
		}
		b.WriteString("    " + names + ")\n")
		b.WriteString("      COMPREPLY=( $(compgen -W \"" + strings.Join(f.Values, " ") + "\" -- ${cur}) )\n")
		b.WriteString("      return 0\n")
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n")

	b.WriteString("  opts=\"" + strings.Join(opts, " ") + "\"\n")
	b.WriteString("  if [[ ${cur} == -* ]] ; then\n")
	b.WriteString("    COMPREPLY=( $(compgen -W \"${opts}\" -- ${cur}) )\n")
	b.WriteString("    return 0\n")
	b.WriteString("  fi\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _" + appName + " " + appName + "\n")
	return b.String()
}

func zshCompletion(flags []config.Flag) string {
	var parts []string
	for _, f := range flags {
		spec := fmt.Sprintf("'%s[%s]%s'", zFlagName(f), zEscape(f.Usage), zArgSuffix(f))
		parts = append(parts, spec)
	}
	return "#compdef " + appName + "\n_arguments \\\n  " + strings.Join(parts, " \\\n  ") + "\n"
}

func zFlagName(f config.Flag) string {
	name := "--" + f.Long
	if f.Arg != "" {
		// zsh requires = for options with arguments
		name += "="
	}
	if f.Short != "" {
		return "(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",'" + name + "'}'"
	}
	return name
}

func zArgSuffix(f config.Flag) string {
	if f.Arg == "" {
		return ""
	}
	arg := strings.ToLower(f.Arg)
	if len(f.Values) > 0 {
		return ":" + arg + ":(" + strings.Join(f.Values, " ") + ")"
	}
	if f.Arg == "PATH" {
		return ":" + arg + ":_files"
	}
	return ":" + arg + ":"
}

func zEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	return strings.ReplaceAll(s, "]", "\\]")
}

func fishCompletion(flags []config.Flag) string {
	var b strings.Builder
	b.WriteString("complete -c " + appName + " -f\n")
	for _, f := range flags {
		b.WriteString("complete -c " + appName)
		if f.Short != "" {
			b.WriteString(" -s " + f.Short)
		}
		b.WriteString(" -l " + f.Long)
		if f.Arg != "" {
			b.WriteString(" -r")
		}
		if len(f.Values) > 0 {
			b.WriteString(" -a \"" + strings.Join(f.Values, " ") + "\"")
		}
		b.WriteString(" -d \"" + escapeDoubleQuotes(f.Usage) + "\"\n")
	}
	return b.String()
}

func escapeDoubleQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

func manPage(flags []config.Flag) string {
	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(appName) + "\" \"1\" \"\" \"idle-nudge\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + appName + " \\- " + appDescription + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + appName + "\n")

	var synopsis []string
	for _, f := range flags {
		synopsis = append(synopsis, "["+roffEscape(flagNames(f))+"]")
	}
	b.WriteString(strings.Join(synopsis, " ") + "\n")

	b.WriteString(".SH DESCRIPTION\n" + appDescription + "\n")
	b.WriteString(".PP\nThe pointer is polled every check interval. Any movement resets the idle timer. " +
		"Once the pointer has been still for the idle threshold it is moved by a small random offset.\n")
	b.WriteString(".SH OPTIONS\n")
	for _, f := range flags {
		b.WriteString(".TP\n\\fB" + roffEscape(flagNames(f)) + "\\fR\n" + roffEscape(f.Usage))
		if f.Default != "" {
			b.WriteString(" (default: " + roffEscape(f.Default) + ")")
		}
		b.WriteString("\n")
	}
	b.WriteString(".SH EXAMPLES\n")
	b.WriteString(".TP\n\\fB" + appName + "\\fR\nRandom timing with subtle nudges in the dashboard.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-m budget\\fR\nNever stay idle longer than 4m50s.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-m interactive \\-i 5 \\-\\-plain\\fR\nNudge after four idle minutes, printing status lines.\n")
	b.WriteString(".SH EXIT STATUS\n0 on interrupt or rejected input, 1 when the pointer cannot be read or moved, 2 on invalid usage.\n")
	b.WriteString(".SH SEE ALSO\nProject homepage: https://github.com/stigoleg/idle-nudge\n")
	return b.String()
}

func flagNames(f config.Flag) string {
	names := "--" + f.Long
	if f.Short != "" {
		names = "-" + f.Short + ", " + names
	}
	if f.Arg != "" {
		names += " " + f.Arg
	}
	return names
}

func roffEscape(s string) string {
	return strings.ReplaceAll(s, "-", "\\-")
}

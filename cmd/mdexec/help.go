package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mdexec/internal/config"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexec <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render markdown files, running marked code blocks")
	fmt.Fprintln(w, "  settings   Show or change the interpreter settings")
	fmt.Fprintln(w, "  doctor     Check interpreter, settings and browser")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdexec help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexec render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown files to HTML. Fenced python blocks whose first line is")
	fmt.Fprintln(w, "'# run' are executed as '<interpreter> -u -c <source>' and their output is")
	fmt.Fprintln(w, "written below the block.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --pdf                 Also export PDF (requires Chrome)")
	fmt.Fprintln(w, "      --title <s>           Document title (default: file name)")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file")
	fmt.Fprintln(w, "      --style <name>        Highlight style (default: github)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Execution (this run only):")
	fmt.Fprintln(w, "  -i, --interpreter <path>  Interpreter executable")
	fmt.Fprintln(w, "      --no-source           Hide block sources")
	fmt.Fprintln(w, "      --exit-status         Show interpreter exit codes")
	fmt.Fprintln(w, "      --language <name>     Fence language to execute (default: python)")
	fmt.Fprintln(w, "      --label <s>           Name shown in exit status lines")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDEXEC_SETTINGS           Settings file path")
	fmt.Fprintln(w, "  MDEXEC_INTERPRETER        Interpreter for this run")
	fmt.Fprintln(w, "  MDEXEC_WORKERS            Parallel workers")
}

// printSettingsUsage prints usage for the settings command.
func printSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexec settings [show|get <field>|set <field> <value>|reset|save|path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show or change the interpreter settings. Every change is saved immediately;")
	fmt.Fprintln(w, "save writes the current settings, creating the file if it is missing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fields:")
	fmt.Fprintf(w, "  %-20s Interpreter executable name or path (default: python)\n", config.FieldInterpreterPath)
	fmt.Fprintf(w, "  %-20s Show block sources: true or false (default: true)\n", config.FieldShowSource)
	fmt.Fprintf(w, "  %-20s Show exit codes: true or false (default: false)\n", config.FieldShowExitStatus)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexec doctor [--json] [--settings <path>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the interpreter resolves, the settings file parses and")
	fmt.Fprintln(w, "Chrome is available for PDF export.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -s, --settings <path>     Settings file (.yaml, .yml or .toml)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress and run logs")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch strings.ToLower(args[0]) {
	case "render":
		printRenderUsage(env.Stdout)
	case "settings":
		printSettingsUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdexec version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdexec help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

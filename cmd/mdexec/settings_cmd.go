package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdexec/internal/config"
)

// runSettingsCmd shows or changes the persisted settings.
// Subcommands: show (default), get, set, reset, save, path.
func runSettingsCmd(args []string, env *Environment) error {
	flags, positional, err := parseSettingsFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	configureLogging(*flags, env)

	sub := "show"
	if len(positional) > 0 {
		sub, positional = positional[0], positional[1:]
	}

	store, err := openSettings(flags.settings, env)
	if err != nil {
		return err
	}

	switch sub {
	case "show":
		if err := expectArgs(sub, positional, 0); err != nil {
			return err
		}
		printSettings(store, env)

	case "get":
		if err := expectArgs(sub, positional, 1); err != nil {
			return err
		}
		value, err := config.Get(store.Settings(), positional[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, value)

	case "set":
		if err := expectArgs(sub, positional, 2); err != nil {
			return err
		}
		if err := store.Set(positional[0], positional[1]); err != nil {
			return err
		}
		log.Infof("settings saved to %s", store.Path())
		if !flags.quiet {
			value, _ := config.Get(store.Settings(), positional[0])
			fmt.Fprintf(env.Stdout, "%s = %s\n", positional[0], value)
		}

	case "reset":
		if err := expectArgs(sub, positional, 0); err != nil {
			return err
		}
		if err := store.Reset(); err != nil {
			return err
		}
		if !flags.quiet {
			fmt.Fprintln(env.Stdout, "Settings reset to defaults")
		}

	case "save":
		if err := expectArgs(sub, positional, 0); err != nil {
			return err
		}
		if err := store.Save(); err != nil {
			return err
		}
		log.Infof("settings saved to %s", store.Path())
		if !flags.quiet {
			fmt.Fprintf(env.Stdout, "Settings saved to %s\n", store.Path())
		}

	case "path":
		if err := expectArgs(sub, positional, 0); err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, store.Path())

	default:
		return fmt.Errorf("%w: unknown settings command %q (show, get, set, reset, save, path)", ErrUsage, sub)
	}
	return nil
}

// expectArgs checks the positional argument count of a subcommand.
func expectArgs(sub string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: settings %s takes %d argument(s), got %d", ErrUsage, sub, n, len(args))
	}
	return nil
}

// printSettings lists every field with its current value.
func printSettings(store *config.Store, env *Environment) {
	s := store.Settings()
	for _, field := range config.Fields() {
		value, _ := config.Get(s, field)
		fmt.Fprintf(env.Stdout, "%-18s %s\n", field, value)
	}

	source := store.Path()
	if !store.Exists() {
		source += " (not saved yet, using defaults)"
	}
	fmt.Fprintf(env.Stdout, "\n%-18s %s\n", "file", source)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Tawhide16/CampusKit/core/budget"
	"github.com/Tawhide16/CampusKit/core/workspace"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

// importTimeout bounds the reading of an import file.
const importTimeout = 30 * time.Second

type commandLine struct {
	registry *workspace.Registry
	in       io.Reader // confirmation prompts
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  importbank -file FILE [-user UID] - prepend the questions of an exported bank")
	_, _ = fmt.Fprintln(cli.out, "  exportbank [-file FILE] [-user UID] - write the question bank as JSON")
	_, _ = fmt.Fprintln(cli.out, "  resetbank [-yes] [-user UID] - restore the starter questions")
	_, _ = fmt.Fprintln(cli.out, "  budgetreport -file FILE [-range R] [-user UID] - write the budget as an xlsx workbook")
	_, _ = fmt.Fprintln(cli.out, "  summary [-range R] [-user UID] - print the budget totals")
	_, _ = fmt.Fprintln(cli.out, "Without -user, commands act on the local (un-namespaced) workspace.")
}

func (cli *commandLine) newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	uid := fs.String("user", "", "The workspace owner's uid.")
	return fs, uid
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "importbank":
		fs, uid := cli.newFlagSet("importbank")
		file := fs.String("file", "", "The JSON file to import.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		if *file == "" {
			fs.Usage()
			return errHelp
		}
		return cli.importBank(*uid, *file)

	case "exportbank":
		fs, uid := cli.newFlagSet("exportbank")
		file := fs.String("file", "", "The destination file. Defaults to question-bank-YYYY-MM-DD.json.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		return cli.exportBank(*uid, *file)

	case "resetbank":
		fs, uid := cli.newFlagSet("resetbank")
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		return cli.resetBank(*uid, *yes)

	case "budgetreport":
		fs, uid := cli.newFlagSet("budgetreport")
		file := fs.String("file", "", "The destination .xlsx file.")
		rng := fs.String("range", budget.RangeAll, "week, month, year or all.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		if *file == "" {
			fs.Usage()
			return errHelp
		}
		return cli.budgetReport(*uid, *file, *rng)

	case "summary":
		fs, uid := cli.newFlagSet("summary")
		rng := fs.String("range", budget.RangeAll, "week, month, year or all.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		return cli.summary(*uid, *rng)

	default:
		cli.printUsage()
		return errHelp
	}
}

func stdinFd() int { return int(os.Stdin.Fd()) }

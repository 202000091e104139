package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	errConfirmationRequired = errors.New("not a terminal: pass -yes to reset the question bank")
	errAborted              = errors.New("aborted")
)

func (cli *commandLine) importBank(uid, file string) error {
	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	res, err := cli.registry.Workspace(uid).QA.ImportFile(ctx, file)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "imported %d questions\n", res.Count())
	return nil
}

func (cli *commandLine) exportBank(uid, file string) error {
	filename, data, err := cli.registry.Workspace(uid).QA.Export()
	if err != nil {
		return err
	}
	if file == "" {
		file = filename
	}
	if err = os.WriteFile(file, data, 0o644); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "question bank written to %s\n", file)
	return nil
}

// confirm asks a yes/no question on the terminal.
func (cli *commandLine) confirm(question string) (bool, error) {
	if !isTerminalFunc(stdinFd()) {
		return false, errConfirmationRequired
	}
	_, _ = fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && answer == "" {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (cli *commandLine) resetBank(uid string, yes bool) error {
	if !yes {
		ok, err := cli.confirm("Replace the whole question bank with the starter questions?")
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}
	bank := cli.registry.Workspace(uid).QA.Reset()
	_, _ = fmt.Fprintf(cli.out, "question bank reset (%d questions)\n", len(bank))
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/japaniel/wordbook/pkg/wordlist"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var translateMissing bool
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Restore words and sentences from a word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := wordlist.Load(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd.Context(), func(e *env) error {
				opts := wordlist.ImporterOptions{
					SourceLang: a.cfg.Translate.From,
					TargetLang: a.cfg.Translate.To,
					BatchSize:  a.cfg.Workers.BatchSize,
				}
				if translateMissing {
					if e.client == nil {
						return fmt.Errorf("--translate needs translate.app_id and translate.secret")
					}
					opts.Translator = e.client
					opts.Concurrency = a.cfg.Workers.Count
				}
				n, err := wordlist.NewImporter(e.store, opts).Import(cmd.Context(), entries)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d words from %d entries\n", n, len(entries))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&translateMissing, "translate", false, "translate entries that have no translation")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every word and sentence as a JSON word list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEnv(cmd.Context(), func(e *env) error {
				w := cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				n, err := wordlist.Export(cmd.Context(), e.store, w)
				if err != nil {
					return err
				}
				if output != "" && output != "-" {
					fmt.Fprintf(cmd.ErrOrStderr(), "exported %d words to %s\n", n, output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

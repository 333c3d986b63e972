package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/wordbook"
	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newAddCmd(a *app) *cobra.Command {
	var (
		translation string
		resource    string
		book        int64
		sentences   []string
	)
	cmd := &cobra.Command{
		Use:   "add <word>",
		Short: "Save a word, translating it when no translation is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEnv(cmd.Context(), func(e *env) error {
				req := wordbook.AddWordRequest{
					Word:        args[0],
					Translation: translation,
					Resource:    resource,
					Sentences:   sentences,
				}
				if cmd.Flags().Changed("book") {
					req.SourceBookID = &book
				}
				v, err := e.svc.AddWord(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", v.ID, v.Formatted())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&translation, "translation", "t", "", "translation to store instead of fetching one")
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "label for the sample sentences, usually the book title")
	cmd.Flags().Int64Var(&book, "book", 0, "id of the book the word was read in")
	cmd.Flags().StringArrayVarP(&sentences, "sentence", "s", nil, "sample sentence to attach (repeatable)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		book     int64
		src, tar string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEnv(cmd.Context(), func(e *env) error {
				var (
					words []db.Vocabulary
					err   error
				)
				switch {
				case cmd.Flags().Changed("book"):
					words, err = e.svc.WordsByBook(cmd.Context(), book)
				case src != "" || tar != "":
					if src == "" || tar == "" {
						return errors.New("--src and --tar must be given together")
					}
					words, err = e.svc.WordsByLanguages(cmd.Context(), src, tar)
				default:
					words, err = e.svc.Words(cmd.Context())
				}
				if err != nil {
					return err
				}
				for _, v := range words {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", v.ID, v.Formatted())
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&book, "book", 0, "only words read in this book")
	cmd.Flags().StringVar(&src, "src", "", "source language")
	cmd.Flags().StringVar(&tar, "tar", "", "target language")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a word and its sample sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd.Context(), func(e *env) error {
				if err := e.svc.DeleteWord(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
				return nil
			})
		},
	}
}

func newExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <word>",
		Short: "Report whether a word is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEnv(cmd.Context(), func(e *env) error {
				id, ok, err := e.svc.Exists(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "not saved")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved as %d\n", id)
				return nil
			})
		},
	}
}

func newSpellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spell <id> <attempt>",
		Short: "Check a spelling attempt against a saved word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd.Context(), func(e *env) error {
				res, err := e.svc.CheckSpelling(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, res.Message)
				if res.Hint != "" {
					fmt.Fprintln(out, res.Hint)
				}
				return nil
			})
		},
	}
}

func newTranslateCmd(a *app) *cobra.Command {
	var (
		to   string
		word int64
	)
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text, or refresh the translation of a saved word with --word",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEnv(cmd.Context(), func(e *env) error {
				if cmd.Flags().Changed("word") {
					v, err := e.svc.RetranslateWord(cmd.Context(), word)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), v.Formatted())
					return nil
				}
				text := strings.Join(args, " ")
				if strings.TrimSpace(text) == "" {
					return errors.New("nothing to translate")
				}
				out, err := e.svc.TranslateTo(cmd.Context(), text, to)
				if err != nil {
					return errors.New(apperrors.PublicMessage(err))
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target language (default from config)")
	cmd.Flags().Int64Var(&word, "word", 0, "id of a saved word to retranslate")
	return cmd
}

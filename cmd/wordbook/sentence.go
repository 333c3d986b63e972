package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSentenceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentence",
		Short: "Manage the sample sentences of a word",
	}
	cmd.AddCommand(
		newSentenceAddCmd(a),
		newSentenceListCmd(a),
		newSentenceDeleteCmd(a),
		newSentenceClearCmd(a),
	)
	return cmd
}

func newSentenceAddCmd(a *app) *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "add <word-id> <sentence>",
		Short: "Attach a sample sentence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd.Context(), func(e *env) error {
				s, err := e.svc.AddSampleSentence(cmd.Context(), id, args[1], resource)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", s.ID, s.Sentence)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "where the sentence comes from")
	return cmd
}

func newSentenceListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <word-id>",
		Short: "List sample sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd.Context(), func(e *env) error {
				list, err := e.svc.SampleSentences(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, s := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t(%s)\n", s.ID, s.Sentence, s.Resource)
				}
				return nil
			})
		},
	}
}

func newSentenceDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sentence-id>",
		Short: "Delete one sample sentence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd.Context(), func(e *env) error {
				if err := e.svc.DeleteSampleSentence(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted sentence %d\n", id)
				return nil
			})
		},
	}
}

func newSentenceClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <word-id>",
		Short: "Delete every sample sentence of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd.Context(), func(e *env) error {
				n, err := e.svc.ClearSampleSentences(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d sentences\n", n)
				return nil
			})
		},
	}
}

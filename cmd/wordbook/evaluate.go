package main

import (
	"fmt"
	"io"
	"os"

	"github.com/japaniel/wordbook/pkg/speech"
	"github.com/spf13/cobra"
)

func newEvaluateCmd(_ *app) *cobra.Command {
	var scoreOnly bool
	cmd := &cobra.Command{
		Use:   "evaluate <result.xml|->",
		Short: "Print the report of a pronunciation evaluation result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			res, err := speech.Parse(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, speech.Score(res))
			if !scoreOnly {
				fmt.Fprint(out, res.Format())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&scoreOnly, "score", false, "print only the total score")
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/japaniel/wordbook/pkg/reader"
	"github.com/japaniel/wordbook/pkg/wordbook"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// maxChapterSize bounds fetched and read chapter documents.
const maxChapterSize = 10 * 1024 * 1024

func newMatchCmd(a *app) *cobra.Command {
	var (
		file, pageURL, text string
		language            string
		save                bool
	)
	cmd := &cobra.Command{
		Use:   "match <word>",
		Short: "Find the sentences of a chapter that use a word",
		Long: "Reads a chapter from --file (HTML or plain text), --url or --text, prints the\n" +
			"sentences containing the word and, with --save, stores the word with them.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := loadChapter(cmd.Context(), file, pageURL, text)
			if err != nil {
				return err
			}
			log.Debug().Str("title", ch.Title).Int("paragraphs", len(ch.Paragraphs)).Msg("chapter loaded")

			return a.withEnv(cmd.Context(), func(e *env) error {
				sel, err := e.svc.SelectIn(cmd.Context(), args[0], language, ch.Paragraphs)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, s := range sel.Sentences {
					fmt.Fprintln(out, s)
				}
				if !save {
					if sel.Exists {
						fmt.Fprintf(out, "already saved as %d\n", sel.VocabularyID)
					}
					return nil
				}
				v, err := e.svc.AddWord(cmd.Context(), wordbook.AddWordRequest{
					Word:      sel.Word,
					Resource:  ch.Title,
					Sentences: sel.Sentences,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "saved %d\t%s\n", v.ID, v.Formatted())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "chapter file (.html, .xhtml or plain text)")
	cmd.Flags().StringVarP(&pageURL, "url", "u", "", "chapter URL to fetch")
	cmd.Flags().StringVar(&text, "text", "", "chapter text")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the chapter (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "save the word with the matching sentences")
	cmd.MarkFlagsMutuallyExclusive("file", "url", "text")
	cmd.MarkFlagsOneRequired("file", "url", "text")
	return cmd
}

func loadChapter(ctx context.Context, file, pageURL, text string) (reader.Chapter, error) {
	switch {
	case text != "":
		return reader.Chapter{Paragraphs: reader.ChunkParagraphs(text)}, nil
	case pageURL != "":
		body, err := fetch(ctx, pageURL)
		if err != nil {
			return reader.Chapter{}, err
		}
		return reader.ExtractChapter(body, pageURL)
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return reader.Chapter{}, err
		}
		defer f.Close()
		body, err := readLimited(f)
		if err != nil {
			return reader.Chapter{}, fmt.Errorf("read %s: %w", file, err)
		}
		switch strings.ToLower(filepath.Ext(file)) {
		case ".html", ".htm", ".xhtml":
			return reader.ExtractChapter(body, "")
		}
		return reader.Chapter{
			Title:      strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
			Paragraphs: reader.ChunkParagraphs(string(body)),
		}, nil
	}
	return reader.Chapter{}, errors.New("one of --file, --url or --text is required")
}

func fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// Some sites refuse clients that do not look like a browser.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,zh;q=0.8,ja;q=0.7")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	if resp.ContentLength > maxChapterSize {
		return nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxChapterSize)
	}
	return readLimited(resp.Body)
}

// readLimited reads at most maxChapterSize bytes and fails if there is more.
func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxChapterSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxChapterSize {
		return nil, fmt.Errorf("document exceeds maximum size of %d bytes", maxChapterSize)
	}
	return body, nil
}

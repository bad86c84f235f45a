package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/priyank/bookquiz/internal/generate"
	"github.com/priyank/bookquiz/internal/question"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a question bank from a chapter text file",
		RunE:  runGenerate,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "Chapter text file (required)")
	f.StringP("output", "o", "bank.json", "Output bank file")
	f.String("chapter-name", "", "Chapter name stored in the bank")
	f.Int("mcq", 10, "Number of multiple-choice questions")
	f.Int("one-mark", 8, "Number of 1-mark questions")
	f.Int("two-mark", 6, "Number of 2-mark questions")
	f.Int("three-mark", 5, "Number of 3-mark questions")
	f.Int("five-mark", 4, "Number of 5-mark questions")
	f.String("llm-provider", "", "LLM provider (mistral, gemini, openai, anthropic, mock); empty = auto-detect")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(v.GetString("input"))
	if err != nil {
		return fmt.Errorf("read chapter: %w", err)
	}

	chapterName := v.GetString("chapter-name")
	if chapterName == "" {
		chapterName = v.GetString("input")
	}

	provider, _, err := buildProvider(ctx, v)
	if err != nil {
		return err
	}

	service := generate.NewService(
		generate.New(provider, generate.DefaultConfig()),
		generate.NewFallback(),
	)

	counts := map[question.Category]int{
		question.CategoryMCQ:       v.GetInt("mcq"),
		question.CategoryOneMark:   v.GetInt("one-mark"),
		question.CategoryTwoMark:   v.GetInt("two-mark"),
		question.CategoryThreeMark: v.GetInt("three-mark"),
		question.CategoryFiveMark:  v.GetInt("five-mark"),
	}

	bank, err := service.BuildBank(ctx, string(data), chapterName, counts)
	if err != nil {
		return fmt.Errorf("generate bank: %w", err)
	}

	out := v.GetString("output")
	if err := bank.Save(out); err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	slog.Info("bank written", "path", out, "questions", bank.Total())
	return nil
}

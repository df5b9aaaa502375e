package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/parlance-dev/bpetokenizer/envconfig"
	"github.com/parlance-dev/bpetokenizer/logutil"
	"github.com/parlance-dev/bpetokenizer/tokenizer"
	"github.com/parlance-dev/bpetokenizer/version"
)

func loadTokenizer(cmd *cobra.Command) (*tokenizer.Tokenizer, error) {
	vocabPath, _ := cmd.Flags().GetString("vocab")
	mergesPath, _ := cmd.Flags().GetString("merges")
	dictPath, _ := cmd.Flags().GetString("dict")

	vocab, err := tokenizer.LoadVocabulary(vocabPath)
	if err != nil {
		return nil, err
	}

	merges, err := tokenizer.LoadMerges(mergesPath)
	if err != nil {
		return nil, err
	}

	cfg := tokenizer.Config{
		CacheSize:           envconfig.CacheSize,
		MaxCachedWordLength: envconfig.MaxCachedWordLen,
	}

	cfg.UnknownToken, _ = cmd.Flags().GetString("unk-token")
	cfg.BeginOfText, _ = cmd.Flags().GetString("bos-token")
	cfg.EndOfText, _ = cmd.Flags().GetString("eos-token")

	if dictPath != "" {
		if cfg.OccurrenceRanks, err = tokenizer.LoadOccurrenceRanks(dictPath); err != nil {
			return nil, err
		}
	}

	return tokenizer.New(vocab, merges, cfg)
}

func encodeOptions(cmd *cobra.Command, t *tokenizer.Tokenizer) tokenizer.EncodeOptions {
	opts := t.Defaults()
	opts.AddPrefixSpace, _ = cmd.Flags().GetBool("prefix-space")
	opts.AddBeginOfText, _ = cmd.Flags().GetBool("bos")
	opts.AddEndOfText, _ = cmd.Flags().GetBool("eos")

	if noSplit, _ := cmd.Flags().GetBool("no-split"); noSplit {
		opts.SplitWords = false
	}

	return opts
}

func encodeHandler(cmd *cobra.Command, args []string) error {
	t, err := loadTokenizer(cmd)
	if err != nil {
		return err
	}

	tokens, err := t.Encode(args[0], encodeOptions(cmd, t))
	if err != nil {
		return err
	}

	if idsOnly, _ := cmd.Flags().GetBool("ids"); idsOnly {
		for i, tok := range tokens {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(tok.ID)
		}
		fmt.Println()
		return nil
	}

	var data [][]string
	for _, tok := range tokens {
		data = append(data, []string{
			strconv.Itoa(int(tok.ID)),
			tok.Value,
			fmt.Sprintf("%d:%d", tok.Offset.Index, tok.Offset.Index+tok.Offset.Length),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "TOKEN", "OFFSET"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

func decodeHandler(cmd *cobra.Command, args []string) error {
	t, err := loadTokenizer(cmd)
	if err != nil {
		return err
	}

	ids := make([]int32, len(args))
	for i, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("bad token id %q: %w", arg, err)
		}
		ids[i] = int32(id)
	}

	opts := t.DecodeDefaults()
	opts.WithSpecialTokens, _ = cmd.Flags().GetBool("special")
	opts.HasPrefixSpace, _ = cmd.Flags().GetBool("prefix-space")

	text, err := t.Decode(ids, opts)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

func countHandler(cmd *cobra.Command, args []string) error {
	t, err := loadTokenizer(cmd)
	if err != nil {
		return err
	}

	count, err := t.CountTokens(args[0], encodeOptions(cmd, t))
	if err != nil {
		return err
	}

	fmt.Println(count)
	return nil
}

func envHandler(cmd *cobra.Command, args []string) error {
	vars := envconfig.AsMap()

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := vars[name]
		fmt.Printf("%-32s %v\n", v.Name, v.Description)
	}

	return nil
}

func NewCLI() *cobra.Command {
	level := slog.LevelInfo
	if envconfig.Debug {
		level = slog.LevelDebug
	}
	if envconfig.Trace {
		level = logutil.LevelTrace
	}
	slog.SetDefault(logutil.NewLogger(os.Stderr, level))

	rootCmd := &cobra.Command{
		Use:     "tokenizer",
		Short:   "Byte-level BPE tokenizer",
		Version: version.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}

	rootCmd.PersistentFlags().String("vocab", "vocab.json", "Path to the vocabulary file")
	rootCmd.PersistentFlags().String("merges", "merges.txt", "Path to the merges file")
	rootCmd.PersistentFlags().String("dict", "", "Path to an occurrence dictionary file")
	rootCmd.PersistentFlags().String("unk-token", "", "Unknown token string")
	rootCmd.PersistentFlags().String("bos-token", "", "Begin-of-text token string")
	rootCmd.PersistentFlags().String("eos-token", "", "End-of-text token string")

	cobra.EnableCommandSorting = false

	encodeCmd := &cobra.Command{
		Use:   "encode TEXT",
		Short: "Encode text to tokens",
		Args:  cobra.ExactArgs(1),
		RunE:  encodeHandler,
	}
	encodeCmd.Flags().Bool("prefix-space", false, "Encode as if the text began with a space")
	encodeCmd.Flags().Bool("bos", false, "Prepend the begin-of-text token")
	encodeCmd.Flags().Bool("eos", false, "Append the end-of-text token")
	encodeCmd.Flags().Bool("no-split", false, "Skip pre-tokenization")
	encodeCmd.Flags().Bool("ids", false, "Print ids only")

	decodeCmd := &cobra.Command{
		Use:   "decode ID...",
		Short: "Decode token ids to text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  decodeHandler,
	}
	decodeCmd.Flags().Bool("special", false, "Render special tokens")
	decodeCmd.Flags().Bool("prefix-space", false, "Strip the synthesized leading space")

	countCmd := &cobra.Command{
		Use:   "count TEXT",
		Short: "Count the tokens text encodes to",
		Args:  cobra.ExactArgs(1),
		RunE:  countHandler,
	}
	countCmd.Flags().Bool("prefix-space", false, "Encode as if the text began with a space")
	countCmd.Flags().Bool("bos", false, "Prepend the begin-of-text token")
	countCmd.Flags().Bool("eos", false, "Append the end-of-text token")
	countCmd.Flags().Bool("no-split", false, "Skip pre-tokenization")

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show environment variables",
		RunE:  envHandler,
	}

	rootCmd.AddCommand(encodeCmd, decodeCmd, countCmd, envCmd)

	return rootCmd
}

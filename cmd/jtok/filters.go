package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	ourjson "github.com/arnodel/jtok/encoding/json"
	"github.com/arnodel/jtok/filter"
	"github.com/arnodel/jtok/internal/format"
	"github.com/arnodel/jtok/token"
)

// runFilterCommand builds and runs the cobra "filter"/"sieve"/"inject"
// commands, the filter package's own analogue of the -in/-out pipeline in
// main.go: each reads a JSON stream from stdin, applies one of the five
// filter-package transforms, and writes the result back out as JSON.
// Dispatched from main() the same way runBackupCommand is.
func runFilterCommand(args []string) {
	root := &cobra.Command{
		Use:           "jtok",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var packKeys, omitKeys, selectKeys []string
	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "apply packEntry/omitEntry/selectEntry to the JSON stream on stdin",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runFilter(packKeys, omitKeys, selectKeys)
		},
	}
	filterCmd.Flags().StringArrayVar(&packKeys, "pack", nil, "key path to materialize and log to stderr (may be repeated)")
	filterCmd.Flags().StringArrayVar(&omitKeys, "omit", nil, "key path to drop (may be repeated)")
	filterCmd.Flags().StringArrayVar(&selectKeys, "select", nil, "key path to keep, discarding everything else (may be repeated)")

	var sieveKeys, sieveEquals []string
	sieveCmd := &cobra.Command{
		Use:   "sieve",
		Short: "apply objectSieve to the JSON stream on stdin, releasing only matching root objects",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runSieve(sieveKeys, sieveEquals)
		},
	}
	sieveCmd.Flags().StringArrayVar(&sieveKeys, "key", nil, "key path a root object's entry must have (paired by position with --equals)")
	sieveCmd.Flags().StringArrayVar(&sieveEquals, "equals", nil, "JSON literal the entry's value must equal (paired by position with --key)")

	var injectKey, injectValue string
	injectCmd := &cobra.Command{
		Use:   "inject",
		Short: "apply injectEntry to the JSON stream on stdin, splicing a fixed value into every root object",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runInject(injectKey, injectValue)
		},
	}
	injectCmd.Flags().StringVar(&injectKey, "key", "", "key to inject (required)")
	injectCmd.Flags().StringVar(&injectValue, "value", "", "JSON literal to inject as the value (required)")
	injectCmd.MarkFlagRequired("key")
	injectCmd.MarkFlagRequired("value")

	root.AddCommand(filterCmd, sieveCmd, injectCmd)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFilter(packKeys, omitKeys, selectKeys []string) error {
	if len(packKeys) == 0 && len(omitKeys) == 0 && len(selectKeys) == 0 {
		return fmt.Errorf("filter: at least one of --pack, --omit, --select is required")
	}

	stream := readJSONStream(os.Stdin)
	if len(packKeys) > 0 {
		stream = token.TransformStream(stream, &loggingPackEntry{Matchers: literalMatchers(packKeys)})
	}
	if len(omitKeys) > 0 {
		stream = token.TransformStream(stream, &filter.OmitEntry{Matchers: literalMatchers(omitKeys)})
	}
	if len(selectKeys) > 0 {
		stream = token.TransformStream(stream, &filter.SelectEntry{Matchers: literalMatchers(selectKeys)})
	}
	return writeJSONStream(stream)
}

func runSieve(keys, equalsLiterals []string) error {
	if len(keys) == 0 || len(keys) != len(equalsLiterals) {
		return fmt.Errorf("sieve: --key and --equals must each be given the same number of times, at least once")
	}
	rules := make([]filter.SieveRule, len(keys))
	for i, k := range keys {
		var v any
		if err := json.Unmarshal([]byte(equalsLiterals[i]), &v); err != nil {
			return fmt.Errorf("sieve: invalid --equals JSON literal %q: %w", equalsLiterals[i], err)
		}
		rules[i] = filter.SieveRule{Key: filter.Literal(k), Value: filter.Equal(v)}
	}
	sieve := &filter.ObjectSieve{Rules: rules}
	return writeJSONStream(token.TransformStream(readJSONStream(os.Stdin), sieve))
}

func runInject(key, valueLiteral string) error {
	toks, err := decodeJSONLiteralTokens(valueLiteral)
	if err != nil {
		return fmt.Errorf("inject: invalid --value JSON literal: %w", err)
	}
	inject := filter.NewInjectEntry(key, func() (filter.ValueTokenStream, error) {
		return filter.NewStaticValueStream(toks), nil
	})
	return writeJSONStream(token.TransformStream(readJSONStream(os.Stdin), inject))
}

func literalMatchers(keys []string) []filter.KeyMatcher {
	matchers := make([]filter.KeyMatcher, len(keys))
	for i, k := range keys {
		matchers[i] = filter.Literal(k)
	}
	return matchers
}

// decodeJSONLiteralTokens parses a standalone JSON value (given on the
// command line for jtok inject --value) into the token sequence
// filter.NewStaticValueStream expects.
func decodeJSONLiteralTokens(literal string) ([]token.Token, error) {
	decoder := ourjson.NewDecoder(strings.NewReader(literal))
	out := make(chan token.Token, 64)
	errCh := make(chan error, 1)
	go func() {
		errCh <- decoder.Produce(out)
		close(out)
	}()
	var toks []token.Token
	for tok := range out {
		toks = append(toks, tok)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return toks, nil
}

// loggingPackEntry runs filter.PackEntry in its default (non-sparse) mode
// and logs each packed value to stderr via zerolog, dropping the
// synthetic *token.PackedEntry marker itself rather than forwarding it —
// the JSON encoder this CLI writes to, like the teacher's, only
// understands the plain structural/scalar tokens. Mirrors
// transform.TraceStream's "observe, don't alter the stream" shape, used
// here for ad hoc inspection of a packEntry configuration.
type loggingPackEntry struct {
	Matchers []filter.KeyMatcher
}

var _ token.StreamTransformer = &loggingPackEntry{}

func (l *loggingPackEntry) Transform(in <-chan token.Token, out token.WriteStream) {
	pack := &filter.PackEntry{Matchers: l.Matchers}
	packed := token.TransformStream(in, pack)
	for tok := range packed {
		if pe, ok := tok.(*token.PackedEntry); ok {
			log.Debug().Str("key", pe.Key).Interface("value", pe.Value).Msg("packEntry matched")
			continue
		}
		out.Put(tok)
	}
}

// readJSONStream starts a token stream from a plain JSON reader, the
// format these filter-package subcommands operate on exclusively (unlike
// main.go's pipeline, which guesses among json/csv/jpv).
func readJSONStream(r io.Reader) <-chan token.Token {
	return token.StartStream(ourjson.NewDecoder(r), func(err error) {
		fmt.Fprintf(os.Stderr, "error while parsing: %s\n", err)
	})
}

// writeJSONStream drains stream to stdout as indented JSON, using the
// same Printer/Encoder pairing main.go's pipeline uses for -out json.
func writeJSONStream(stream <-chan token.Token) error {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	printer := &format.DefaultPrinter{Writer: out, IndentSize: 2}
	encoder := &ourjson.Encoder{Printer: printer, CompactObjectMaxItems: 2}
	return token.ConsumeStream(stream, encoder)
}

package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arnodel/jtok/filter"
	"github.com/arnodel/jtok/token"
)

// runWatchCommand builds and runs the cobra "watch" command: it re-prints
// a local fixture file's JSON, through the filter-package pipeline
// runFilter builds, every time the file is written, so a packEntry,
// omitEntry or selectEntry configuration can be iterated on against a
// saved sample of a payload shape before pointing it at a live service.
//
// Grounded on fsnotify's Watcher/Events/Errors idiom (watcher.Add, then a
// select over the two channels) as used by
// fyrsmithlabs-contextd's GitEventDetector.
func runWatchCommand(args []string) {
	root := &cobra.Command{
		Use:           "jtok",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var filePath string
	var packKeys, omitKeys, selectKeys []string
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "re-run a filter pipeline against a local fixture file on every write",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runWatch(filePath, packKeys, omitKeys, selectKeys)
		},
	}
	watchCmd.Flags().StringVar(&filePath, "file", "", "fixture file to watch (required)")
	watchCmd.Flags().StringArrayVar(&packKeys, "pack", nil, "key path to materialize and log to stderr (may be repeated)")
	watchCmd.Flags().StringArrayVar(&omitKeys, "omit", nil, "key path to drop (may be repeated)")
	watchCmd.Flags().StringArrayVar(&selectKeys, "select", nil, "key path to keep, discarding everything else (may be repeated)")
	watchCmd.MarkFlagRequired("file")

	root.AddCommand(watchCmd)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWatch(filePath string, packKeys, omitKeys, selectKeys []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filePath); err != nil {
		return fmt.Errorf("watch: %s: %w", filePath, err)
	}

	renderFixture(filePath, packKeys, omitKeys, selectKeys)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				renderFixture(filePath, packKeys, omitKeys, selectKeys)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Str("file", filePath).Msg("watch error")
		}
	}
}

func renderFixture(filePath string, packKeys, omitKeys, selectKeys []string) {
	f, err := os.Open(filePath)
	if err != nil {
		log.Error().Err(err).Str("file", filePath).Msg("open fixture")
		return
	}
	defer f.Close()

	stream := readJSONStream(f)
	if len(packKeys) > 0 {
		stream = token.TransformStream(stream, &loggingPackEntry{Matchers: literalMatchers(packKeys)})
	}
	if len(omitKeys) > 0 {
		stream = token.TransformStream(stream, &filter.OmitEntry{Matchers: literalMatchers(omitKeys)})
	}
	if len(selectKeys) > 0 {
		stream = token.TransformStream(stream, &filter.SelectEntry{Matchers: literalMatchers(selectKeys)})
	}
	if err := writeJSONStream(stream); err != nil {
		log.Error().Err(err).Str("file", filePath).Msg("render fixture")
	}
}

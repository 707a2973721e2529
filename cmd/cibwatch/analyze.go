// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/cibwatch/internal/config"
	"github.com/tomtom215/cibwatch/internal/embedding"
	"github.com/tomtom215/cibwatch/internal/pipeline"
	"github.com/tomtom215/cibwatch/internal/progress"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		inPath  string
		outPath string
		stream  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a one-shot analysis against a local batch file",
		Long:  "Reads a JSON or YAML batch file (filteredData, params, timeWindow), runs the detection engine, and writes the resulting report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(inPath, outPath, stream)
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "input batch file (JSON or YAML)")
	cmd.Flags().StringVar(&outPath, "out", "", "output report file (JSON); defaults to stdout")
	cmd.Flags().BoolVar(&stream, "stream", false, "print progress events to stderr as the run proceeds")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runAnalyze(inPath, outPath string, stream bool) error {
	req, err := loadBatchFile(inPath)
	if err != nil {
		return fmt.Errorf("load batch file: %w", err)
	}

	if req.Params.MinSyncPosts == 0 {
		defaults, err := config.Load()
		if err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
		req.Params = defaults.Detection.ToParams()
	}

	embedSvc := embedding.NewService(&embedding.LocalTransport{})
	p := pipeline.New(embedSvc)

	var reporter *progress.Throttled
	var ch *progress.ChannelReporter
	if stream {
		ch = progress.NewChannelReporter(32)
		reporter = progress.NewThrottled(ch)
		go func() {
			for ev := range ch.Events {
				fmt.Fprintf(os.Stderr, "[%s] %d/%d\n", ev.Stage, ev.Current, ev.Total)
			}
		}()
	}

	report, _, err := p.Run(context.Background(), req, reporter)
	if ch != nil {
		ch.Close()
	}
	if err != nil {
		return fmt.Errorf("analyze run failed: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outPath, data, 0o644)
}

// loadBatchFile decodes a pipeline.Request from either JSON or YAML,
// selected by file extension.
func loadBatchFile(path string) (pipeline.Request, error) {
	var req pipeline.Request

	raw, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &req)
	default:
		err = json.Unmarshal(raw, &req)
	}
	return req, err
}

//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// run invokes the built CLI with args.
func run(args ...string) error {
	return sh.RunV(binPath(), args...)
}

// Analyze runs one analysis for the query in $QUERY (default "Genesis 1:1").
func Analyze() error {
	mg.Deps(Build)
	query := os.Getenv("QUERY")
	if query == "" {
		query = "Genesis 1:1"
	}
	return run("analyze", query)
}

// Serve starts the HTTP API on the configured address.
func Serve() error {
	mg.Deps(Build)
	return run("serve")
}

// Corpus collects the catalogue and writes the JSONL training segments.
func Corpus() error {
	mg.Deps(Build, Init)
	if err := run("corpus", "collect"); err != nil {
		return fmt.Errorf("corpus collect: %w", err)
	}
	return run("corpus", "prepare")
}

// Index builds the retrieval index from the prepared corpus.
func Index() error {
	mg.Deps(Corpus)
	return run("index", "build")
}

// Finetune writes the fine-tuning configuration for the prepared corpus.
func Finetune() error {
	mg.Deps(Corpus)
	return run("finetune", "prepare")
}

// All prepares the corpus, index and fine-tuning artifacts, then runs one
// analysis.
func All() {
	mg.SerialDeps(Index, Finetune, Analyze)
}

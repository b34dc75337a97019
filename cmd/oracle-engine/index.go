// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/index"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and query the retrieval index",
	Long: `Index embeds the prepared training segments into a SQLite vector
index at data/vector_db/index.db and answers similarity or keyword queries
against it. The embedding backend is "simulated" (local feature hashing) or
"ollama" (an Ollama-compatible /api/embeddings endpoint).`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed the prepared corpus and write index_config.json",
	RunE:  runIndexBuild,
}

var indexQueryCmd = &cobra.Command{
	Use:   "query [text...]",
	Short: "Rank indexed segments against a query",
	RunE:  runIndexQuery,
}

func openIndex(cfg types.RAGConfig) (index.Embedder, *index.Store, error) {
	emb, err := index.NewEmbedder(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}
	store, err := index.OpenStore(index.DBPath(cfg.DataDir))
	if err != nil {
		return nil, nil, err
	}
	return emb, store, nil
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	emb, store, err := openIndex(cfg.RAG)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = index.Build(cmd.Context(), emb, store, cfg.RAG, os.Stdout)
	return err
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("query text is required")
	}
	keyword, _ := cmd.Flags().GetBool("keyword")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	emb, store, err := openIndex(cfg.RAG)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	var hits []types.SearchResult
	if keyword {
		hits, err = store.Keyword(ctx, text, cfg.RAG.TopK)
	} else {
		hits, err = index.Query(ctx, emb, store, text, cfg.RAG.TopK)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-12s  %s\n", "Rank", "Score", "Book", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for i, h := range hits {
		snippet := h.Text
		if len(snippet) > 40 {
			snippet = snippet[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-8.4f  %-12s  %s\n", i+1, h.Score, h.Metadata.BookName, snippet)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

func init() {
	indexCmd.PersistentFlags().String("data-dir", "", "base directory for corpus data (default data)")
	indexCmd.PersistentFlags().String("backend", "", "embedding backend: simulated or ollama")
	bindFlag(indexCmd.PersistentFlags(), "rag.data_dir", "data-dir")
	bindFlag(indexCmd.PersistentFlags(), "rag.embedding.backend", "backend")

	indexQueryCmd.Flags().Int("top-k", 0, "number of results (default 5)")
	indexQueryCmd.Flags().Bool("keyword", false, "full-text search instead of vector similarity")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")
	bindFlag(indexQueryCmd.Flags(), "rag.top_k", "top-k")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)

	rootCmd.AddCommand(indexCmd)
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/CryingSurrogate/docchunk/internal/config"
	"github.com/CryingSurrogate/docchunk/internal/pipeline"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.SetFlags(0)

	cfgPathFlag := flag.String("config", "", "path to docchunk config (TOML)")
	htmlPath := flag.String("html", "", "converted document HTML to chunk")
	textPath := flag.String("text", "", "plain text file to chunk (used when -html is empty)")
	write := flag.Bool("write", false, "persist artifacts under artifact_root")
	flag.Parse()

	cfg, err := config.Load(*cfgPathFlag)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	engine, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	var (
		report *pipeline.RunReport
		result *pipeline.Result
	)
	switch {
	case *htmlPath != "":
		f, err := os.Open(*htmlPath)
		if err != nil {
			log.Fatalf("open %s: %v", *htmlPath, err)
		}
		defer f.Close()
		report, result, err = engine.ChunkHTML(ctx, pipeline.Request{Document: filepath.Base(*htmlPath), WriteArtifacts: *write}, f)
		if err != nil && result == nil {
			log.Fatalf("chunk html: %v", err)
		}
	case *textPath != "":
		data, err := os.ReadFile(*textPath)
		if err != nil {
			log.Fatalf("read %s: %v", *textPath, err)
		}
		report, result, err = engine.ChunkText(ctx, pipeline.Request{Document: filepath.Base(*textPath), Text: string(data), WriteArtifacts: *write})
		if err != nil {
			log.Fatalf("chunk text: %v", err)
		}
	default:
		log.Fatalf("one of -html or -text is required")
	}

	out := struct {
		Run          *pipeline.RunReport `json:"run"`
		TokenCounter string              `json:"token_counter"`
		Summary      any                 `json:"chunk_summary"`
		Distribution any                 `json:"distribution"`
	}{report, result.TokenCounter, result.Summary, result.Distribution}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

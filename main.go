package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/CryingSurrogate/docchunk/internal/config"
	"github.com/CryingSurrogate/docchunk/internal/pipeline"
	"github.com/CryingSurrogate/docchunk/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfgPath := flag.String("config", "", "path to docchunk config (TOML); env vars override")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	engine, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	log.Printf("chunk.tokens model=%s mode=%s", engine.Counter().Model(), engine.Counter().Mode())

	// Create a server and register available tools.
	server := mcp.NewServer(&mcp.Implementation{Name: "docchunk", Version: "v0.2.0"}, nil)

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: false})

	chunkTools := &tools.ChunkTools{Engine: engine}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chunk_text",
		Description: "Split plain text into token-bounded, overlapping chunks",
	}, chunkTools.ChunkText)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chunk_document",
		Description: "Chunk a document given as ordered sections or converted HTML, numbering chunks across sections",
	}, chunkTools.ChunkDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chunk_summary",
		Description: "Aggregate token, character and overlap statistics for a chunk list",
	}, chunkTools.Summarize)

	http.HandleFunc("/mcp", handler.ServeHTTP)
	log.Printf("listening on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, nil))
}

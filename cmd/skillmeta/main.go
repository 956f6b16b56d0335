package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"skill-ledger/internal/config"
	"skill-ledger/internal/database/seeder"
	"skill-ledger/internal/infrastructure/persistence/mongodb"

	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "", "vocabulary file (.xlsx, .csv, .json, .yaml)")
	out := flag.String("out", "", "optional path to write the built tree as JSON")
	dryRun := flag.Bool("dry-run", false, "build the tree without writing to mongo")
	flag.Parse()

	path := strings.TrimSpace(*file)
	if path == "" {
		log.Fatalf("provide -file")
	}

	tree, err := seeder.LoadTree(path)
	if err != nil {
		log.Fatalf("failed to load vocabulary: %v", err)
	}

	if p := strings.TrimSpace(*out); p != "" {
		if err := writeJSON(p, tree); err != nil {
			log.Fatalf("failed to write %s: %v", p, err)
		}
		log.Printf("tree written to %s", p)
	}
	if *dryRun {
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}
	cfg, err := config.LoadMongo()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect mongo: %v", err)
	}
	defer func() {
		_ = db.Close(context.Background())
	}()

	r := seeder.Runner{Seeders: []seeder.Seeder{seeder.Vocabulary{Tree: tree}}}
	if err := r.Run(ctx, mongodb.NewSkillMetaRepository(db)); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("skills vocabulary uploaded from %s", path)
}

func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

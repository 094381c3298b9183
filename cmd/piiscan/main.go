package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cognicore/piiscan/internal/htmltext"
	"github.com/cognicore/piiscan/pkg/piiscan"
	"github.com/cognicore/piiscan/pkg/piiscan/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional, built-in English setup otherwise)")
		lang       = flag.String("lang", "en", "Language of the text")
		entities   = flag.String("entities", "", "Comma-separated entity types (default: all supported)")
		filePath   = flag.String("file", "", "Read text from file (\"-\" for stdin)")
		text       = flag.String("text", "", "Text to analyze")
		isHTML     = flag.Bool("html", false, "Input is HTML; analyze its visible text")
		dbPath     = flag.String("db", "", "SQLite database for run history (overrides store.path)")
		history    = flag.Int("history", 0, "List the N most recent runs instead of analyzing")
		threshold  = flag.Float64("threshold", 0, "Drop results scoring below this value")
		verbose    = flag.Bool("v", false, "Debug logging to stderr")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()

	analyzer, cleanup, err := buildAnalyzer(ctx, *configPath, *dbPath, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if *history > 0 {
		runs, err := analyzer.History(ctx, *history)
		if err != nil {
			log.Fatal(err)
		}
		if err := writeJSON(os.Stdout, runs); err != nil {
			log.Fatal(err)
		}
		return
	}

	input, err := readInput(*text, *filePath, *isHTML, os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	if strings.TrimSpace(input) == "" {
		log.Fatal("--text or --file required")
	}

	resp, err := analyzer.Analyze(ctx, piiscan.Request{
		Text:           input,
		Language:       *lang,
		Entities:       splitList(*entities),
		ScoreThreshold: *threshold,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := writeJSON(os.Stdout, output(input, resp)); err != nil {
		log.Fatal(err)
	}
}

func buildAnalyzer(ctx context.Context, configPath, dbPath string, logger *slog.Logger) (*piiscan.Analyzer, func(), error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	loader := config.Loader{Config: cfg, Logger: logger, StorePath: dbPath}
	components, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("build components: %w", err)
	}

	analyzer := piiscan.New(piiscan.Options{
		Builder:     components.Builder,
		Recognizers: components.Registry,
		Store:       components.Store,
		Logger:      logger,
	})

	cleanup := func() {
		components.Close()
	}
	return analyzer, cleanup, nil
}

// readInput returns the text to analyze: -text wins over -file.
func readInput(text, filePath string, isHTML bool, stdin io.Reader) (string, error) {
	var r io.Reader
	switch {
	case text != "":
		r = strings.NewReader(text)
	case filePath == "-":
		r = stdin
	case filePath != "":
		f, err := os.Open(filePath)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	default:
		return "", nil
	}

	if isHTML {
		return htmltext.Extract(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type finding struct {
	EntityType  string  `json:"entity_type"`
	Text        string  `json:"text"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Score       float64 `json:"score"`
	Recognizer  string  `json:"recognizer"`
	Explanation string  `json:"explanation,omitempty"`
	ContextWord string  `json:"context_word,omitempty"`
}

type report struct {
	RunID    string    `json:"run_id"`
	Language string    `json:"language"`
	Findings []finding `json:"findings"`
}

func output(text string, resp piiscan.Response) report {
	rep := report{RunID: resp.RunID, Language: resp.Language, Findings: []finding{}}
	for _, r := range resp.Results {
		rep.Findings = append(rep.Findings, finding{
			EntityType:  r.EntityType,
			Text:        text[r.Start:r.End],
			Start:       r.Start,
			End:         r.End,
			Score:       r.Score,
			Recognizer:  r.Explanation.Recognizer,
			Explanation: r.Explanation.TextualExplanation,
			ContextWord: r.Explanation.SupportiveContextWord,
		})
	}
	return rep
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

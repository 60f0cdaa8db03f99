// Entry point for the hwpread CLI: document extraction, corpus scanning,
// and the MCP server (stdio or streamable HTTP on a chi router).
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/hwpread"
	"github.com/hazyhaar/hwpread/dbopen"
	"github.com/hazyhaar/hwpread/hwpcore"
	"github.com/hazyhaar/hwpread/kit"
	"github.com/hazyhaar/hwpread/render"
	"github.com/hazyhaar/hwpread/scanstore"
)

const version = "1.0.0"

func usage() {
	fmt.Fprintf(os.Stderr, `usage: hwpread <command> [flags]

commands:
  text <file.hwp>       print the document's plain text
  markdown <file.hwp>   print the document as markdown
  json <file.hwp>       print the document model as JSON
  info <file.hwp>       print a document summary
  scan <dir>            parse every .hwp under dir, record results to sqlite
  serve                 run the MCP server (stdio, or HTTP with -http)

environment:
  HWPREAD_CONFIG  yaml config file (default hwpread.yaml)
  HWPREAD_DB      scan manifest database path
  LOG_LEVEL       debug | info | warn | error
`)
	os.Exit(2)
}

func main() {
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
	}

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := hwpread.LoadConfigFile(env("HWPREAD_CONFIG", "hwpread.yaml"))
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	if v := os.Getenv("HWPREAD_DB"); v != "" {
		cfg.DBPath = v
	}
	cfg.Logger = logger
	pipe := hwpread.New(cfg)

	switch os.Args[1] {
	case "text":
		err = cmdText(ctx, pipe, os.Args[2:])
	case "markdown":
		err = cmdMarkdown(ctx, pipe, os.Args[2:])
	case "json":
		err = cmdJSON(ctx, pipe, os.Args[2:])
	case "info":
		err = cmdInfo(ctx, pipe, os.Args[2:])
	case "scan":
		err = cmdScan(ctx, pipe, cfg, os.Args[2:])
	case "serve":
		err = cmdServe(ctx, pipe, os.Args[2:])
	case "version":
		fmt.Println("hwpread", version)
	default:
		usage()
	}
	if err != nil {
		slog.Error(os.Args[1], "error", err)
		os.Exit(1)
	}
}

func cmdText(ctx context.Context, pipe *hwpread.Pipeline, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hwpread text <file.hwp>")
	}
	text, err := pipe.Text(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func cmdMarkdown(ctx context.Context, pipe *hwpread.Pipeline, args []string) error {
	fl := flag.NewFlagSet("markdown", flag.ExitOnError)
	format := fl.String("format", string(render.MarkdownSemantic), "semantic-markdown or plain")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if fl.NArg() != 1 {
		return fmt.Errorf("usage: hwpread markdown [-format f] <file.hwp>")
	}
	md, err := pipe.Markdown(ctx, fl.Arg(0), render.MarkdownFormat(*format))
	if err != nil {
		return err
	}
	fmt.Println(md)
	return nil
}

func cmdJSON(ctx context.Context, pipe *hwpread.Pipeline, args []string) error {
	fl := flag.NewFlagSet("json", flag.ExitOnError)
	pretty := fl.Bool("pretty", true, "indent the output")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if fl.NArg() != 1 {
		return fmt.Errorf("usage: hwpread json [-pretty] <file.hwp>")
	}
	data, err := pipe.JSON(ctx, fl.Arg(0), *pretty)
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	fmt.Println()
	return nil
}

func cmdInfo(ctx context.Context, pipe *hwpread.Pipeline, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hwpread info <file.hwp>")
	}
	info, err := pipe.Inspect(ctx, args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

// cmdScan walks a directory of .hwp files, parses each one and records the
// outcome to the scan manifest database.
func cmdScan(ctx context.Context, pipe *hwpread.Pipeline, cfg hwpread.Config, args []string) error {
	fl := flag.NewFlagSet("scan", flag.ExitOnError)
	dbPath := fl.String("db", cfg.DBPath, "scan manifest database")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if fl.NArg() != 1 {
		return fmt.Errorf("usage: hwpread scan [-db path] <dir>")
	}
	root := fl.Arg(0)

	db, err := dbopen.Open(*dbPath, dbopen.WithMkdirAll(), dbopen.WithSchema(scanstore.Schema))
	if err != nil {
		return fmt.Errorf("scan db: %w", err)
	}
	defer db.Close()
	store := scanstore.NewStore(db)
	defer store.Close()

	var total, failed int
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".hwp") {
			return nil
		}
		total++
		res := scanFile(ctx, pipe, path)
		if res.Status != "ok" {
			failed++
			slog.Warn("scan failed", "path", path, "status", res.Status, "error", res.Error)
		}
		store.RecordAsync(res)
		return nil
	})
	if err != nil {
		return err
	}

	// Close drains the async buffer before we query the totals.
	store.Close()
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		return err
	}
	slog.Info("scan complete", "files", total, "failed", failed, "by_status", counts)
	return nil
}

func scanFile(ctx context.Context, pipe *hwpread.Pipeline, path string) *scanstore.Result {
	res := &scanstore.Result{
		Path:      path,
		ScannedAt: time.Now().Unix(),
	}
	if data, err := os.ReadFile(path); err == nil {
		sum := sha256.Sum256(data)
		res.SHA256 = hex.EncodeToString(sum[:])
		res.SizeBytes = int64(len(data))
	}

	start := time.Now()
	doc, err := pipe.Extract(ctx, path)
	res.DurationUs = time.Since(start).Microseconds()
	if err != nil {
		res.Status = hwpcore.FailureKind(err)
		res.Error = err.Error()
		return res
	}
	res.Status = "ok"
	res.Sections = len(doc.Sections)
	res.Paragraphs = doc.ParagraphCount()
	res.Tables = doc.TableCount()
	res.Warnings = len(doc.Warnings) + len(doc.Failures)
	if len(doc.Failures) > 0 {
		res.Status = "partial"
		res.Error = doc.Failures[0].Error
	}
	return res
}

// cmdServe runs the MCP server. Default transport is stdio; -http switches to
// the streamable HTTP transport mounted on a chi router.
func cmdServe(ctx context.Context, pipe *hwpread.Pipeline, args []string) error {
	fl := flag.NewFlagSet("serve", flag.ExitOnError)
	httpAddr := fl.String("http", "", "listen address for streamable HTTP (empty = stdio)")
	if err := fl.Parse(args); err != nil {
		return err
	}

	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    "hwpread",
		Version: version,
	}, nil)
	pipe.RegisterMCP(mcpSrv)

	if *httpAddr == "" {
		slog.Info("MCP server starting", "transport", "stdio")
		return mcpSrv.Run(kit.WithTransport(ctx, "stdio"), &mcp.StdioTransport{})
	}

	handler := requestContext(mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpSrv
	}, nil))

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok", "version": version})
	})
	r.Handle("/mcp", handler)
	r.Handle("/mcp/*", handler)

	srv := &http.Server{
		Addr:              *httpAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("MCP server starting", "transport", "http", "addr", *httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// requestContext tags MCP requests with their transport details so tool
// call logs can report where each call came from.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := kit.WithTransport(r.Context(), "http")
		ctx = kit.WithRemoteAddr(ctx, r.RemoteAddr)
		if id := r.Header.Get("X-Request-Id"); id != "" {
			ctx = kit.WithRequestID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// schemacheck validates mapping files against a Solr schema.xml without a running server.
//
// Usage:
//
//	schemacheck -schema schema.xml -mapping products.yaml [-mapping more.yaml] [-type Product] [-format text|json]
//
// Exit codes: 0 valid, 1 mapping errors found, 2 usage or input failure.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/schemaguard/internal/logger"
	mappingrepo "github.com/kailas-cloud/schemaguard/internal/repository/mapping"
	schemarepo "github.com/kailas-cloud/schemaguard/internal/repository/schema"
	validationuc "github.com/kailas-cloud/schemaguard/internal/usecase/validation"
	"github.com/kailas-cloud/schemaguard/internal/version"
)

const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type config struct {
	schemaPath   string
	mappingPaths []string
	types        []string
	format       string
	logLevel     string
	showVersion  bool
}

// listFlag collects a repeatable or comma-separated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	var mappings, types listFlag

	fs := flag.NewFlagSet("schemacheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.schemaPath, "schema", "", "path to Solr schema.xml or managed-schema")
	fs.Var(&mappings, "mapping", "mapping YAML file (repeatable or comma-separated)")
	fs.Var(&types, "type", "document type to validate (repeatable, default: all)")
	fs.StringVar(&cfg.format, "format", "text", "output format: text or json")
	fs.StringVar(&cfg.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.BoolVar(&cfg.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	cfg.mappingPaths, cfg.types = mappings, types

	if cfg.showVersion {
		return cfg, nil
	}
	if cfg.schemaPath == "" || len(cfg.mappingPaths) == 0 {
		fs.Usage()
		return config{}, fmt.Errorf("-schema and -mapping are required")
	}
	if cfg.format != "text" && cfg.format != "json" {
		return config{}, fmt.Errorf("-format must be text or json, got %q", cfg.format)
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitValid
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "schemacheck:", err)
		return exitUsage
	}
	if cfg.showVersion {
		_, _ = fmt.Fprintln(stdout, version.String())
		return exitValid
	}

	logger, err := logpkg.NewLogger("cli", cfg.logLevel)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "schemacheck:", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	res, err := check(cfg, logger)
	if err != nil {
		logger.Error("Validation failed", zap.Error(err))
		_, _ = fmt.Fprintln(stderr, "schemacheck:", err)
		return exitUsage
	}

	if cfg.format == "json" {
		err = writeJSON(stdout, res)
	} else {
		err = writeText(stdout, res)
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "schemacheck:", err)
		return exitUsage
	}

	if !res.Valid() {
		return exitInvalid
	}
	return exitValid
}

func check(cfg config, logger *zap.Logger) (validationuc.Result, error) {
	f, err := os.Open(cfg.schemaPath)
	if err != nil {
		return validationuc.Result{}, fmt.Errorf("open schema: %w", err)
	}
	defer func() { _ = f.Close() }()

	sch, err := schemarepo.ParseXML(f)
	if err != nil {
		return validationuc.Result{}, fmt.Errorf("%s: %w", cfg.schemaPath, err)
	}
	model, err := mappingrepo.Load(cfg.mappingPaths...)
	if err != nil {
		return validationuc.Result{}, err
	}

	svc := validationuc.New(nil, model, validationuc.DefaultRules(), logger)
	res, err := svc.Check(sch, validationuc.Request{DocumentTypes: cfg.types})
	if err != nil {
		return validationuc.Result{}, err
	}
	res.Schema = cfg.schemaPath
	return res, nil
}

func writeText(w io.Writer, res validationuc.Result) error {
	for _, rep := range res.Reports {
		status := "ok"
		if !rep.Valid() {
			status = fmt.Sprintf("%d error(s)", len(rep.Errors))
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", rep.DocumentType, status); err != nil {
			return err
		}
		for _, e := range rep.Errors {
			if _, err := fmt.Fprintf(w, "  [%s] %s\n", e.Rule, e.Message); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d document type(s), %d error(s)\n", len(res.Reports), res.ErrorCount())
	return err
}

type jsonError struct {
	Rule       string `json:"rule"`
	PropertyID string `json:"property_id,omitempty"`
	FieldName  string `json:"field_name"`
	Message    string `json:"message"`
}

type jsonReport struct {
	DocumentType string      `json:"document_type"`
	Valid        bool        `json:"valid"`
	Errors       []jsonError `json:"errors"`
}

type jsonResult struct {
	ID      string       `json:"id"`
	Schema  string       `json:"schema"`
	Valid   bool         `json:"valid"`
	Reports []jsonReport `json:"reports"`
}

func writeJSON(w io.Writer, res validationuc.Result) error {
	out := jsonResult{ID: res.ID, Schema: res.Schema, Valid: res.Valid(), Reports: make([]jsonReport, len(res.Reports))}
	for i, rep := range res.Reports {
		errs := make([]jsonError, len(rep.Errors))
		for j, e := range rep.Errors {
			errs[j] = jsonError{Rule: e.Rule, PropertyID: e.PropertyID, FieldName: e.FieldName, Message: e.Message}
		}
		out.Reports[i] = jsonReport{DocumentType: rep.DocumentType, Valid: rep.Valid(), Errors: errs}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebeliceyang/ctower/internal/combination"
	"github.com/rebeliceyang/ctower/internal/config"
	"github.com/rebeliceyang/ctower/internal/export"
	"github.com/rebeliceyang/ctower/internal/filter"
	"github.com/rebeliceyang/ctower/internal/logger"
	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/rebeliceyang/ctower/internal/provider"
	"github.com/rebeliceyang/ctower/internal/quote"
	"github.com/rebeliceyang/ctower/internal/schema"
	"github.com/rebeliceyang/ctower/internal/schemes"
	"github.com/rebeliceyang/ctower/internal/session"
	"github.com/spf13/pflag"
)

type options struct {
	configFile  string
	legs        string
	where       []string
	selects     []string
	schemes     []string
	saveAs      string
	listSchemes string
	format      string
	out         string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var verr *combination.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Cannot build combination: %v\n", verr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	v := config.New()
	fs := pflag.NewFlagSet("ctower", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configFile, "config", "", "config file (default: search ~/.config/ctower, ., ./config)")
	fs.StringVar(&opts.legs, "legs", "pre,main", "enabled legs: pre, main, on")
	fs.StringArrayVar(&opts.where, "where", nil, "filter condition tab.field=operator[:value], repeatable")
	fs.StringArrayVar(&opts.selects, "select", nil, "selected rate leg=id, repeatable; disables enumeration")
	fs.StringArrayVar(&opts.schemes, "scheme", nil, "apply saved scheme tab=id before --where, repeatable")
	fs.StringVar(&opts.saveAs, "save-as", "", "save the resulting conditions of every filtered tab under this name")
	fs.StringVar(&opts.listSchemes, "list-schemes", "", "list the schemes of a tab and exit")
	fs.StringVar(&opts.format, "format", "csv", "output format: csv or json")
	fs.StringVarP(&opts.out, "out", "o", "", "write output to a file instead of stdout")
	fs.String("source", "", "rate source: file or postgres")
	fs.String("data", "", "rate book path for the file source")
	fs.String("container", "", "container type to price (20GP, 40GP, 40HQ, 45HQ)")
	fs.Int("limit", 0, "maximum number of combinations, 0 for all")
	fs.String("date", "", "reference date YYYY-MM-DD (default: today)")
	fs.String("schemes-backend", "", "scheme storage: memory, yaml or sqlite")

	if err := fs.Parse(args); err != nil {
		return err
	}

	bind := map[string]string{
		"data.source":          "source",
		"data.path":            "data",
		"quote.container_type": "container",
		"quote.limit":          "limit",
		"quote.reference_date": "date",
		"schemes.backend":      "schemes-backend",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", flag, err)
		}
	}

	cfg, err := config.Load(v, opts.configFile)
	if err != nil {
		return err
	}
	log := logger.New(stderr, cfg.Log.Level, cfg.Log.Format)

	backend, closeBackend, err := openBackend(cfg.Schemes)
	if err != nil {
		return err
	}
	defer closeBackend()

	registry := schema.DefaultRegistry()
	if opts.listSchemes != "" {
		return listSchemes(stdout, session.NewWorkspace(registry, backend), opts.listSchemes)
	}

	mask, err := parseLegs(opts.legs)
	if err != nil {
		return err
	}
	container := models.ContainerType(cfg.Quote.ContainerType)
	if !models.IsContainerType(cfg.Quote.ContainerType) {
		return fmt.Errorf("unknown container type '%s'", cfg.Quote.ContainerType)
	}
	ref, err := referenceDate(cfg.Quote.ReferenceDate)
	if err != nil {
		return err
	}
	selection, err := parseSelection(opts.selects)
	if err != nil {
		return err
	}

	filters, err := buildFilters(log, registry, backend, mask, opts)
	if err != nil {
		return err
	}

	ctx := context.Background()
	p, closeProvider, err := openProvider(ctx, cfg.Data)
	if err != nil {
		return err
	}
	defer closeProvider()

	combos, err := quote.NewService(p).Quote(ctx, quote.Request{
		Mask:          mask,
		Container:     container,
		ReferenceDate: ref,
		Filters:       filters,
		Selection:     selection,
		Limit:         cfg.Quote.Limit,
	})
	if err != nil {
		return err
	}
	log.Debug("quote finished", "combinations", len(combos), "container", container, "date", ref.Format(models.DateLayout))

	return writeOutput(stdout, opts, combos)
}

// buildFilters opens one session per enabled leg's tab, applies --scheme and
// --where to it and compiles the result
func buildFilters(log *slog.Logger, registry *schema.Registry, backend schemes.Backend, mask models.LegSelectionMask, opts options) (map[models.Leg]filter.Predicate, error) {
	schemeIDs, err := parsePairs("scheme", opts.schemes)
	if err != nil {
		return nil, err
	}

	clauses := make(map[string][]whereClause)
	for _, expr := range opts.where {
		w, err := parseWhere(expr)
		if err != nil {
			return nil, err
		}
		if _, ok := registry.Lookup(w.Tab, w.Field); !ok {
			return nil, fmt.Errorf("unknown filter field '%s.%s'", w.Tab, w.Field)
		}
		clauses[w.Tab] = append(clauses[w.Tab], w)
	}

	filters := make(map[models.Leg]filter.Predicate)
	for _, leg := range models.Legs {
		if !mask.Enabled(leg) {
			continue
		}
		tab := schema.TabForLeg(leg)

		s, err := session.Open(registry, tab, backend)
		if err != nil {
			return nil, err
		}
		if id, ok := schemeIDs[tab]; ok {
			if err := s.ApplyScheme(id); err != nil {
				return nil, fmt.Errorf("tab '%s': %w", tab, err)
			}
		}
		for _, w := range clauses[tab] {
			s.Store().SetCondition(w.Field, w.Operator, w.Value)
		}

		if opts.saveAs != "" && (len(clauses[tab]) > 0 || schemeIDs[tab] != "") {
			saved, err := s.SaveAs(opts.saveAs)
			if err != nil {
				return nil, fmt.Errorf("tab '%s': %w", tab, err)
			}
			log.Info("scheme saved", "tab", tab, "id", saved.ID, "name", saved.Name)
		}

		filters[leg] = s.Predicate()
	}
	return filters, nil
}

func listSchemes(w io.Writer, ws *session.Workspace, tab string) error {
	s, err := ws.Activate(tab)
	if err != nil {
		return err
	}
	for _, sc := range s.Schemes().List() {
		marker := ""
		if sc.IsDefault {
			marker = " (default)"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s%s\n", sc.ID, sc.Name, marker); err != nil {
			return err
		}
	}
	return nil
}

func openBackend(cfg config.SchemesConfig) (schemes.Backend, func(), error) {
	switch cfg.Backend {
	case "yaml":
		b, err := schemes.NewYAMLBackend(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return b, func() {}, nil
	case "sqlite":
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create schemes directory: %w", err)
		}
		b, err := schemes.NewSQLiteBackend(filepath.Join(cfg.Dir, "schemes.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open scheme database: %w", err)
		}
		return b, func() { _ = b.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

func openProvider(ctx context.Context, cfg config.DataConfig) (provider.Provider, func(), error) {
	if cfg.Source == "postgres" {
		p, err := provider.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	p, err := provider.NewFile(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {}, nil
}

func referenceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.DateOf(time.Now()), nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference date '%s': %w", s, err)
	}
	return t, nil
}

func writeOutput(stdout io.Writer, opts options, combos []models.Combination) error {
	switch opts.format {
	case "json":
		if opts.out != "" {
			return export.ExportToJSON(combos, opts.out)
		}
		return export.WriteJSON(stdout, combos)
	case "csv":
		if opts.out != "" {
			return export.ExportToCSV(combos, opts.out)
		}
		return export.WriteCSV(stdout, combos)
	default:
		return fmt.Errorf("unknown output format '%s'", opts.format)
	}
}

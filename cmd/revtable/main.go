// Command revtable prints the current/revised comparison table of a PDF.
//
// Usage:
//
//	revtable [flags] <pdf>
//
// The table is written to stdout as markdown, csv, html or json. With
// -render-page and -png the given page is also rendered to a PNG file.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/revtable"
	"github.com/tsawler/revtable/extract"
	"github.com/tsawler/revtable/htmltable"
	"github.com/tsawler/revtable/internal/logging"
	"github.com/tsawler/revtable/layout"
	"github.com/tsawler/revtable/model"
)

type options struct {
	pdfPath         string
	marker          string
	strategy        extract.Strategy
	split           layout.SplitMode
	threshold       float64
	rowTolerance    float64
	lang            string
	format          string
	renderPage      int
	pngPath         string
	logLevel        string
	keepPageNumbers bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "revtable: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logging.New(os.Stderr, opts.logLevel)
	if err := run(ctx, opts, os.Stdout, log); err != nil {
		log.WithError(err).Error("revtable failed")
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("revtable", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: revtable [flags] <pdf>\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.marker, "marker", "", "Text of the first left cell that opens the table (empty: all pages)")
	strategy := fs.String("strategy", "vector", "Extraction strategy: vector or ocr")
	split := fs.String("split", "threshold", "Column split: threshold or rowpair")
	fs.Float64Var(&opts.threshold, "threshold", 0, "Fixed column split in points from the left edge (0: derive)")
	fs.Float64Var(&opts.rowTolerance, "row-tolerance", 0.5, "Y distance in points within which runs share a row")
	fs.StringVar(&opts.lang, "lang", "kor", "OCR language")
	fs.StringVar(&opts.format, "format", "markdown", "Output format: markdown, csv, html or json")
	fs.IntVar(&opts.renderPage, "render-page", 0, "Page to render to PNG (requires -png)")
	fs.StringVar(&opts.pngPath, "png", "", "PNG output path for -render-page")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	fs.BoolVar(&opts.keepPageNumbers, "keep-page-numbers", false, "Keep page-number stamps in the output")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}
	opts.pdfPath = fs.Arg(0)

	var err error
	if opts.strategy, err = extract.ParseStrategy(*strategy); err != nil {
		return options{}, err
	}
	if opts.split, err = layout.ParseSplitMode(*split); err != nil {
		return options{}, err
	}
	switch opts.format {
	case "markdown", "md", "csv", "html", "json":
	default:
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	if (opts.renderPage > 0) != (opts.pngPath != "") {
		return options{}, fmt.Errorf("-render-page and -png must be used together")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, out io.Writer, log *logrus.Logger) error {
	ext := revtable.Open(opts.pdfPath).
		Context(ctx).
		Logger(log).
		StartMarker(opts.marker).
		Strategy(opts.strategy).
		Split(opts.split).
		Threshold(opts.threshold).
		RowTolerance(opts.rowTolerance).
		Language(opts.lang)
	if opts.keepPageNumbers {
		ext = ext.KeepPageNumbers()
	}

	if opts.renderPage > 0 {
		if err := renderPNG(ext, opts.renderPage, opts.pngPath); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"page": opts.renderPage, "path": opts.pngPath}).Info("page rendered")
	}

	if opts.strategy == extract.StrategyOCR {
		rows, warnings, err := ext.Recognized()
		if err != nil {
			return err
		}
		logWarnings(log, warnings)
		return writeRows(out, opts.format, rows)
	}

	table, warnings, err := ext.Table()
	if err != nil {
		return err
	}
	logWarnings(log, warnings)
	return writeTable(out, opts.format, table)
}

func renderPNG(ext *revtable.Extractor, page int, path string) error {
	img, err := ext.RenderPage(page)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

func logWarnings(log logrus.FieldLogger, warnings []revtable.Warning) {
	if len(warnings) > 0 {
		log.WithField("count", len(warnings)).Debug(revtable.FormatWarnings(warnings))
	}
}

func writeTable(out io.Writer, format string, table model.LogicalTable) error {
	switch format {
	case "csv":
		_, err := io.WriteString(out, table.ToCSV())
		return err
	case "html":
		if err := htmltable.Render(out, table); err != nil {
			return err
		}
		_, err := io.WriteString(out, "\n")
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	default:
		_, err := io.WriteString(out, table.ToMarkdown())
		return err
	}
}

func writeRows(out io.Writer, format string, rows model.RecognizedRows) error {
	switch format {
	case "csv":
		w := csv.NewWriter(out)
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		return nil
	case "html":
		if err := htmltable.RenderRows(out, rows); err != nil {
			return err
		}
		_, err := io.WriteString(out, "\n")
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		var sb strings.Builder
		for _, row := range rows {
			sb.WriteString("| ")
			sb.WriteString(strings.Join(row, " | "))
			sb.WriteString(" |\n")
		}
		_, err := io.WriteString(out, sb.String())
		return err
	}
}

package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/cheeseinvert/tour-data-eda/internal/logging"
	"github.com/cheeseinvert/tour-data-eda/internal/lookupcache"
)

// Target parameterizes the generic driver for a domain: where subjects come
// from, which rows qualify, and how mapped values become derived columns.
type Target[V any] struct {
	// Name labels the domain in logs ("genres", "states").
	Name string
	// SubjectColumn is the dataset column holding the subject ("Artist", "City").
	SubjectColumn string
	// RowQualifies filters rows considered for lookup and application. Nil
	// means every row qualifies.
	RowQualifies func(d *Dataset, row int) bool
	// DerivedColumns names the columns appended to the dataset.
	DerivedColumns []string
	// Format renders a mapped value into one cell per derived column.
	Format func(value V) []string
	// OutputSuffix derives the default output path ("_with_genres").
	OutputSuffix string
}

// RunOptions control a single reconciliation run.
type RunOptions[V any] struct {
	DatasetPath string
	MappingPath string
	// OutputPath overrides the default derived from DatasetPath.
	OutputPath string
	// DryRun performs lookups and reporting but suppresses all persistent
	// writes of the mapping and the enriched dataset. The lookup cache still
	// records successes.
	DryRun   bool
	Progress ProgressFunc[V]
}

// Summary reports what a run did.
type Summary struct {
	RunID        string
	Provider     string
	Rows         int
	MappingSize  int
	Unmapped     []string
	Added        int
	Failed       []string
	MappedRows   int
	UnmappedRows int
	MappingSaved bool
	OutputPath   string
	OutputSaved  bool
}

// Driver reconciles a persisted mapping with the subjects observed in a
// dataset and applies the mapping back onto the dataset.
type Driver[V any] struct {
	target  Target[V]
	service *Service[V]
	logger  *slog.Logger
}

// NewDriver builds a driver for the given domain target.
func NewDriver[V any](target Target[V], service *Service[V], logger *slog.Logger) (*Driver[V], error) {
	if service == nil {
		return nil, errors.New("enrich: service is required")
	}
	if strings.TrimSpace(target.SubjectColumn) == "" {
		return nil, errors.New("enrich: target subject column is required")
	}
	if len(target.DerivedColumns) == 0 || target.Format == nil {
		return nil, errors.New("enrich: target derived columns and format are required")
	}
	return &Driver[V]{
		target:  target,
		service: service,
		logger:  logging.NewComponentLogger(logger, "enrich"),
	}, nil
}

// Run executes the reconciliation sequence: load dataset, load mapping, look
// up unmapped subjects, merge successes, persist the mapping, apply it to the
// dataset, and write the enriched output. A mapping already persisted before
// a later failure is not rolled back.
func (d *Driver[V]) Run(ctx context.Context, opts RunOptions[V]) (*Summary, error) {
	runID := uuid.NewString()
	logger := d.logger.With(
		logging.String("run_id", runID),
		logging.String("target", d.target.Name),
		logging.String("provider", d.service.Provider()))

	summary := &Summary{RunID: runID, Provider: d.service.Provider()}

	dataset, err := LoadDataset(opts.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	summary.Rows = dataset.Len()
	logger.Info("loaded dataset",
		logging.String("path", opts.DatasetPath),
		logging.Int("rows", dataset.Len()))

	// One run at a time per mapping file; concurrent whole-file rewrites
	// would silently drop each other's entries.
	lock := flock.New(opts.MappingPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire mapping lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("mapping file %s is locked by another run", opts.MappingPath)
	}
	defer lock.Unlock()

	mapping, exists, err := LoadMapping[V](opts.MappingPath)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}
	if !exists {
		logger.Warn("mapping file not found; starting with empty mapping",
			logging.String("path", opts.MappingPath))
	}
	summary.MappingSize = mapping.Len()
	logger.Info("loaded mapping", logging.Int("entries", mapping.Len()))

	unmapped := d.unmappedSubjects(dataset, mapping)
	summary.Unmapped = unmapped

	if len(unmapped) > 0 {
		logger.Info("looking up unmapped subjects", logging.Int("count", len(unmapped)))

		results := d.service.BatchLookup(ctx, unmapped, opts.Progress)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, subject := range unmapped {
			result := results[subject]
			if !result.Found {
				summary.Failed = append(summary.Failed, subject)
				continue
			}
			if mapping.Merge(subject, result.Value) {
				summary.Added++
			}
		}
		logger.Info("lookup complete",
			logging.Int("added", summary.Added),
			logging.Int("failed", len(summary.Failed)))

		switch {
		case opts.DryRun:
			logger.Info("dry run; mapping not saved", logging.Int("would_add", summary.Added))
		case summary.Added > 0:
			if err := mapping.Save(opts.MappingPath); err != nil {
				return nil, fmt.Errorf("save mapping: %w", err)
			}
			summary.MappingSaved = true
			logger.Info("saved mapping",
				logging.String("path", opts.MappingPath),
				logging.Int("entries", mapping.Len()))
		}
	} else {
		logger.Info("all subjects already mapped")
	}

	if err := d.apply(dataset, mapping, summary); err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = OutputPath(opts.DatasetPath, d.target.OutputSuffix)
	}
	summary.OutputPath = outputPath

	if !opts.DryRun {
		if err := dataset.Write(outputPath); err != nil {
			return nil, fmt.Errorf("write output: %w", err)
		}
		summary.OutputSaved = true
		logger.Info("wrote enriched dataset", logging.String("path", outputPath))
	}

	return summary, nil
}

// unmappedSubjects collects qualifying subjects absent from the mapping,
// deduplicated case-insensitively under the first-seen casing and sorted
// lexicographically for reproducible lookup and report ordering.
func (d *Driver[V]) unmappedSubjects(dataset *Dataset, mapping *Mapping[V]) []string {
	column := dataset.ColumnIndex(d.target.SubjectColumn)
	if column < 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var unmapped []string
	for row := range dataset.Rows {
		if d.target.RowQualifies != nil && !d.target.RowQualifies(dataset, row) {
			continue
		}
		subject := dataset.Value(row, column)
		if subject == "" {
			continue
		}
		folded := lookupcache.Fold(subject)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		if mapping.Has(subject) {
			continue
		}
		unmapped = append(unmapped, subject)
	}
	sort.Strings(unmapped)
	return unmapped
}

// apply appends the derived columns to every row. Rows whose subject is
// absent from the final mapping get empty derived values.
func (d *Driver[V]) apply(dataset *Dataset, mapping *Mapping[V], summary *Summary) error {
	column := dataset.ColumnIndex(d.target.SubjectColumn)
	if column < 0 {
		return fmt.Errorf("dataset has no %q column", d.target.SubjectColumn)
	}

	cells := make([][]string, len(d.target.DerivedColumns))
	for i := range cells {
		cells[i] = make([]string, dataset.Len())
	}

	for row := range dataset.Rows {
		if d.target.RowQualifies != nil && !d.target.RowQualifies(dataset, row) {
			continue
		}
		subject := dataset.Value(row, column)
		value, ok := mapping.Get(subject)
		if subject == "" || !ok {
			summary.UnmappedRows++
			continue
		}
		formatted := d.target.Format(value)
		for i := range cells {
			if i < len(formatted) {
				cells[i][row] = formatted[i]
			}
		}
		summary.MappedRows++
	}

	for i, name := range d.target.DerivedColumns {
		if err := dataset.AddColumn(name, cells[i]); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rpggio/prodsched/internal/domain/importer"
	"github.com/rpggio/prodsched/internal/domain/project"
)

func runImport(ctx context.Context, out io.Writer, path string) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	report, err := importer.NewService(a.projects, a.loc, a.logger).Import(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d projects", report.Count)
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintf(out, ", skipped %d rows", n)
	}
	fmt.Fprintln(out)
	for _, skipped := range report.Skipped {
		fmt.Fprintf(out, "  line %d: %v\n", skipped.Line, skipped.Err)
	}
	return nil
}

// runMigrateLegacy loads a JSON array of projects, the format of the old
// file-backed store, as the whole schedule.
func runMigrateLegacy(ctx context.Context, out io.Writer, path string, force bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var projects []project.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.projects.List(ctx)
	if err != nil {
		return err
	}
	if len(doc.Projects) > 0 && !force {
		return fmt.Errorf("schedule already holds %d projects; pass --force to replace them", len(doc.Projects))
	}

	version, err := a.projects.Replace(ctx, projects, doc.Version)
	if err != nil {
		return err
	}
	a.logger.Info("legacy schedule migrated", "path", path, "projects", len(projects), "version", version)
	fmt.Fprintf(out, "migrated %d projects (version %d)\n", len(projects), version)
	return nil
}

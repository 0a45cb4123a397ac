package analyze

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/pylens/pylens/scanner"
)

// AnalyzeDir analyzes every Python file under root, honoring the
// configured ignore patterns. Files are processed concurrently; reports
// come back sorted by path. A file that fails to parse is reported in
// the joined error and does not stop the rest of the run.
func (e *Engine) AnalyzeDir(ctx context.Context, root string) ([]*FileReport, error) {
	files, err := e.discover(root)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports []*FileReport
		errs    []error
	)

	bar := newBar(len(files), root)
	sem := make(chan struct{}, runtime.NumCPU())

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			report, err := e.AnalyzeFile(path)

			mu.Lock()
			defer mu.Unlock()
			bar.Add(1)
			if err != nil {
				e.logger.Error("failed to analyze file", zap.String("path", path), zap.Error(err))
				errs = append(errs, err)
				return
			}
			reports = append(reports, report)
		}(file.Path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return reports, errors.Join(errs...)
}

// OptimizeDir runs the configured pipeline over every Python file under
// root, returning per-file reports sorted by path. Rewritten trees ride
// on the reports; writing them anywhere is the caller's decision.
func (e *Engine) OptimizeDir(ctx context.Context, root string) ([]*OptimizeReport, error) {
	files, err := e.discover(root)
	if err != nil {
		return nil, err
	}

	var (
		reports []*OptimizeReport
		errs    []error
	)

	bar := newBar(len(files), root)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report, err := e.OptimizeFile(file.Path)
		bar.Add(1)
		if err != nil {
			e.logger.Error("failed to optimize file", zap.String("path", file.Path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return reports, errors.Join(errs...)
}

func (e *Engine) discover(root string) ([]scanner.FileInfo, error) {
	s := scanner.New(root)
	if err := s.Ignore(e.config.Ignore...); err != nil {
		return nil, err
	}
	return s.Scan()
}

func newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

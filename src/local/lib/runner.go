package local

import (
	"context"
	"fmt"
	"io"
	client "sales-analysis/src/client/lib"
	"sales-analysis/src/common/logger"
	mapper "sales-analysis/src/mapper/lib"
	sum "sales-analysis/src/sum/lib"
)

const LINES_BUFFER_SIZE = 1024

type RunnerConfig struct {
	Client  client.ClientConfig
	Mapper  mapper.MapperConfig
	Report  sum.ReportOptions
	Workers int
}

// Run maps every matching file through a worker pool, sums the pairs per period and
// writes the report to w.
func Run(ctx context.Context, conf RunnerConfig, w io.Writer) (mapper.Stats, error) {
	log := logger.GetLoggerWithPrefix("[LOCAL]")

	files, err := client.NewFileHandler(conf.Client.DataPath).GetFilesWithPattern(conf.Client.Pattern)
	if err != nil {
		return mapper.Stats{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string, LINES_BUFFER_SIZE)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		readErr <- readFiles(ctx, conf.Client, files, lines)
	}()

	totals := sum.NewPeriodTotals()
	reporter := mapper.ReporterFunc(func(status string) {
		log.Warning(status)
	})

	pool := mapper.NewPool(conf.Workers, conf.Mapper.TransformOptions()...)
	stats, err := pool.Run(ctx, lines, totals, reporter)
	if err != nil {
		return stats, err
	}
	if err := <-readErr; err != nil {
		return stats, err
	}

	log.Infof("Mapped %d file(s) | %s", len(files), stats)

	if err := sum.Render(w, totals, conf.Report); err != nil {
		return stats, fmt.Errorf("failed to render report: %w", err)
	}
	return stats, nil
}

func readFiles(ctx context.Context, conf client.ClientConfig, files []string, lines chan<- string) error {
	for _, file := range files {
		if err := readFile(ctx, conf, file, lines); err != nil {
			return err
		}
	}
	return nil
}

func readFile(ctx context.Context, conf client.ClientConfig, file string, lines chan<- string) error {
	bg, err := client.NewBatchGenerator(conf.DataPath, file, conf.SkipHeader)
	if err != nil {
		return err
	}
	defer bg.Close()

	for bg.IsReading() {
		batch, err := bg.GetNextBatch(conf.BatchSize)
		if err != nil {
			return err
		}
		for _, line := range batch.Items {
			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

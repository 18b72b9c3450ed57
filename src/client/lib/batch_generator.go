package client

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

const MAX_LINE_SIZE = 1024 * 1024

// BatchGenerator reads a file line by line and hands the lines out in batches.
type BatchGenerator struct {
	file      *os.File
	scanner   *bufio.Scanner
	isReading bool
}

func NewBatchGenerator(folderPath, fileName string, skipHeader bool) (*BatchGenerator, error) {
	file, err := os.Open(filepath.Join(folderPath, fileName))
	if err != nil {
		return nil, fmt.Errorf("error opening file %s: %w", fileName, err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MAX_LINE_SIZE)

	bg := &BatchGenerator{
		file:      file,
		scanner:   scanner,
		isReading: true,
	}

	if skipHeader && !bg.scanner.Scan() {
		bg.isReading = false
		if err := bg.scanner.Err(); err != nil {
			file.Close()
			return nil, fmt.Errorf("error reading header of %s: %w", fileName, err)
		}
	}

	return bg, nil
}

func (bg *BatchGenerator) IsReading() bool {
	return bg.isReading
}

// GetNextBatch returns up to batchSize lines. The last batch of a file may be empty.
func (bg *BatchGenerator) GetNextBatch(batchSize int) (*Batch, error) {
	batch := NewBatch(batchSize)

	for !batch.IsFull() {
		if !bg.scanner.Scan() {
			bg.isReading = false
			if err := bg.scanner.Err(); err != nil {
				return nil, fmt.Errorf("error reading %s: %w", bg.file.Name(), err)
			}
			break
		}
		batch.AddItem(bg.scanner.Text())
	}

	return batch, nil
}

func (bg *BatchGenerator) Close() error {
	return bg.file.Close()
}

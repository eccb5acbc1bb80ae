// Package oplog writes the human-readable operation log a script opens with
// logger_init. Every operation appends a small table with its outcome.
package oplog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
)

const (
	DefaultPath = "kipt.out"
	// NotAvailable stands in for values an operation did not produce.
	NotAvailable = "N/A"

	headerFormat = "Monday, January _2, 2006 15:04:05"
)

// Row is one key/value line of an entry.
type Row struct {
	Key   string
	Value string
}

type Log struct {
	mu   sync.Mutex
	file afero.File
}

// Open truncates path and writes the dated header.
func Open(fsys afero.Fs, path string, now time.Time) (*Log, error) {
	if path == "" {
		path = DefaultPath
	}
	file, err := fsys.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if _, err = fmt.Fprintf(file, "-- %s --\n\n", now.UTC().Format(headerFormat)); err != nil {
		file.Close()
		return nil, err
	}
	return &Log{file: file}, nil
}

func (l *Log) Name() string {
	return l.file.Name()
}

// Write appends an entry headed "> kind: name".
func (l *Log) Write(kind, name string, rows []Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := fmt.Fprintf(l.file, "> %s: %s\n", kind, name); err != nil {
		return err
	}
	render(l.file, rows)
	_, err := io.WriteString(l.file, "\n")
	return err
}

// WriteLine appends a free-form line.
func (l *Log) WriteLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := io.WriteString(l.file, line+"\n")
	return err
}

func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func render(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		value := row.Value
		if value == "" {
			value = NotAvailable
		}
		table.Append([]string{row.Key, value})
	}
	table.Render()
}

// Package logutils builds the application's zerolog logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kdlbs/kandev/pkg/utils"
)

// New returns a logger that writes JSON to the specified file, creating
// parent directories as needed. An empty file means stdout. The special
// file "-" buffers log output in memory and flushes it to stderr when the
// closer runs, so logs never interleave with a fullscreen TUI.
//
// Level is one of: debug, info, warn, error, fatal, panic.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer = os.Stdout
	switch {
	case file == "-":
		dw := &utils.DeferredWriter{}
		closer = func() { _ = dw.Flush(os.Stderr) }
		writer = dw

	case file != "":
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		osFile, err := os.Create(file)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = osFile.Close() }
		writer = osFile
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}

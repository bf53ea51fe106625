package gotaylor

import (
	"fmt"
	"io"
	"strings"
)

// Logger accumulates messages during an integration
// run and writes them to Output once the run finishes.
type Logger struct {
	Output io.Writer
	buff   strings.Builder
}

// Logf formats message to simulation logger. Messages are printed
// when the run finishes. This is a rudimentary implementation of a logger.
func (log *Logger) Logf(format string, a ...interface{}) {
	log.buff.WriteString(fmt.Sprintf(format, a...))
}

func (log *Logger) flush() {
	if log.Output == nil {
		return
	}
	log.Output.Write([]byte(log.buff.String()))
	log.buff.Reset()
}

// NewLogger returns a Logger writing to w on flush.
func NewLogger(w io.Writer) Logger {
	return Logger{Output: w, buff: strings.Builder{}}
}

package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ConsoleHook mirrors every entry to stdout so the service stays
// observable when the log file is the primary sink.
type ConsoleHook struct {
	out *os.File
}

func NewConsoleHook() *ConsoleHook {
	return &ConsoleHook{out: os.Stdout}
}

func (h *ConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(line)
	return err
}

func (h *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

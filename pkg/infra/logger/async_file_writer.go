package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultFlushInterval = 2 * time.Second

// AsyncFileWriter keeps log writes off the request path. Entries that
// cannot be buffered are dropped rather than blocking the caller; Close
// drains whatever is still queued before releasing the file.
type AsyncFileWriter struct {
	writer        *bufio.Writer
	file          *os.File
	mu            sync.Mutex
	logChan       chan []byte
	done          chan struct{}
	stopped       chan struct{}
	flushInterval time.Duration
}

func NewAsyncFileWriter(logFile string, bufferSize int, flushInterval time.Duration) (*AsyncFileWriter, error) {
	safeLogFile := filepath.Clean(logFile)
	file, err := os.OpenFile(safeLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	aw := &AsyncFileWriter{
		writer:        bufio.NewWriterSize(file, bufferSize),
		file:          file,
		logChan:       make(chan []byte, 1000),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
		flushInterval: flushInterval,
	}

	go aw.processLogs()

	return aw, nil
}

func (aw *AsyncFileWriter) Write(p []byte) (n int, err error) {
	select {
	case aw.logChan <- append([]byte{}, p...):
		return len(p), nil
	default:
		return 0, nil
	}
}

func (aw *AsyncFileWriter) processLogs() {
	defer close(aw.stopped)
	ticker := time.NewTicker(aw.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case logData := <-aw.logChan:
			aw.writeEntry(logData)

		case <-ticker.C:
			aw.mu.Lock()
			_ = aw.writer.Flush()
			aw.mu.Unlock()

		case <-aw.done:
			aw.drain()
			return
		}
	}
}

// drain empties the queue so entries accepted before Close still reach
// the file.
func (aw *AsyncFileWriter) drain() {
	for {
		select {
		case logData := <-aw.logChan:
			aw.writeEntry(logData)
		default:
			aw.mu.Lock()
			_ = aw.writer.Flush()
			aw.mu.Unlock()
			return
		}
	}
}

func (aw *AsyncFileWriter) writeEntry(logData []byte) {
	aw.mu.Lock()
	if _, err := aw.writer.Write(logData); err != nil {
		fmt.Println("error writing log data to file", err)
	}
	aw.mu.Unlock()
}

func (aw *AsyncFileWriter) Close() {
	close(aw.done)
	<-aw.stopped
	_ = aw.file.Close()
}

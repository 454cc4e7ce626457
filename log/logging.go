// SPDX-License-Identifier: GPL-3.0-or-later
package log

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var loggers map[string]*logrus.Logger

func NewPrefixLogger(prefix string) *PrefixLogger {
	stringPrefix := fmt.Sprintf("%s:\t", prefix)

	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = "15:04:05"
	formatter.DisableColors = strings.Contains(runtime.GOOS, "windows")
	return &PrefixLogger{
		formatter,
		[]byte(stringPrefix),
	}
}

type PrefixLogger struct {
	formatter logrus.Formatter
	prefix    []byte
}

func (f *PrefixLogger) Format(entry *logrus.Entry) ([]byte, error) {
	text, err := f.formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	return append(f.prefix, text...), nil
}

const (
	LOG_MAIN        = "MA"
	LOG_MIGRATION   = "MI"
	LOG_ATTACHMENTS = "AT"
	LOG_PERSISTENCE = "PI"
	LOG_IMAP        = "IM"
	LOG_STATE       = "ST"
)

func getLevel(loglevel string) logrus.Level {
	switch strings.ToLower(loglevel) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "panic":
		return logrus.PanicLevel
	case "fatal":
		return logrus.FatalLevel
	}

	// Info is default
	return logrus.InfoLevel
}

func initLogger(prefix, loglevel string) {
	loggers[prefix] = logrus.New()
	loggers[prefix].Level = getLevel(loglevel)
	loggers[prefix].Formatter = NewPrefixLogger(prefix)
}

func InitLogging(loglevel string) {
	loggers = make(map[string]*logrus.Logger)
	consoleHooks = nil
	for _, prefix := range []string{
		LOG_MAIN,
		LOG_MIGRATION,
		LOG_ATTACHMENTS,
		LOG_PERSISTENCE,
		LOG_IMAP,
		LOG_STATE,
	} {
		initLogger(prefix, loglevel)
	}

}

func SetLogLevel(loglevel string) {
	level := getLevel(loglevel)
	if consoleHooks != nil {
		// With a log file attached the loggers stay at debug, only the console filters.
		for _, h := range consoleHooks {
			h.maxLevel = level
		}
		return
	}
	for _, v := range loggers {
		v.Level = level
	}
}

// EnableLogFile sends every entry of every logger to path at debug level while
// the console keeps showing only entries up to the current level.
func EnableLogFile(path string) (io.Closer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}

	fileMutex := &sync.Mutex{}
	for _, l := range loggers {
		console := &levelHook{
			writer:   l.Out,
			maxLevel: l.Level,
			mutex:    &sync.Mutex{},
		}
		consoleHooks = append(consoleHooks, console)
		l.AddHook(console)
		l.AddHook(&levelHook{
			writer:   file,
			maxLevel: logrus.DebugLevel,
			mutex:    fileMutex,
		})
		l.SetOutput(ioutil.Discard)
		l.Level = logrus.DebugLevel
	}

	return file, nil
}

var consoleHooks []*levelHook

type levelHook struct {
	writer   io.Writer
	maxLevel logrus.Level
	mutex    *sync.Mutex
}

func (h *levelHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *levelHook) Fire(entry *logrus.Entry) error {
	if entry.Level > h.maxLevel {
		return nil
	}

	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	_, err = h.writer.Write(line)
	return err
}

func Logger(logger string) *logrus.Logger {
	l, ok := loggers[logger]
	if !ok {
		panic("Logger " + logger + " unknown")
	}

	return l
}

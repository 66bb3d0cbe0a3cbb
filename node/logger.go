// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/pairfactory/config"
)

type logWrapper struct {
	logger       logging.Logger
	displayLevel zap.AtomicLevel
	logLevel     zap.AtomicLevel
}

// LogFactory creates loggers that write to the console and to a rotating
// file per logger.
type LogFactory struct {
	config logging.Config
	lock   sync.RWMutex

	// Logger name --> the logger.
	loggers map[string]logWrapper
}

func NewLogFactory(cfg *config.Config) *LogFactory {
	format := logging.Colors
	if cfg.LogJSONFormat {
		format = logging.JSON
	}
	return &LogFactory{
		config: logging.Config{
			RotatingWriterConfig: logging.RotatingWriterConfig{
				MaxSize:   cfg.LogMaxSize,
				MaxFiles:  cfg.LogMaxFiles,
				MaxAge:    cfg.LogMaxAge,
				Directory: cfg.LogDirectory,
				Compress:  cfg.LogCompress,
			},
			DisableWriterDisplaying: !cfg.LogDisplay,
			LogLevel:                cfg.LogLevel,
			DisplayLevel:            cfg.LogLevel,
			LogFormat:               format,
		},
		loggers: make(map[string]logWrapper),
	}
}

// Assumes [f.lock] is held
func (f *LogFactory) makeLogger(config logging.Config) (logging.Logger, error) {
	if _, ok := f.loggers[config.LoggerName]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", config.LoggerName)
	}

	var consoleWriter io.WriteCloser
	if config.DisableWriterDisplaying {
		consoleWriter = newDiscardWriteCloser()
	} else {
		consoleWriter = os.Stderr
	}
	consoleCore := logging.NewWrappedCore(config.DisplayLevel, consoleWriter, config.LogFormat.ConsoleEncoder())
	consoleCore.WriterDisabled = config.DisableWriterDisplaying

	cores := []logging.WrappedCore{consoleCore}
	fileLevel := consoleCore.AtomicLevel
	if len(config.Directory) > 0 {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(config.Directory, config.LoggerName+".log"),
			MaxSize:    config.MaxSize,  // megabytes
			MaxAge:     config.MaxAge,   // days
			MaxBackups: config.MaxFiles, // files
			Compress:   config.Compress,
		}
		fileCore := logging.NewWrappedCore(config.LogLevel, rw, config.LogFormat.FileEncoder())
		cores = append(cores, fileCore)
		fileLevel = fileCore.AtomicLevel
	}

	prefix := config.LogFormat.WrapPrefix(config.MsgPrefix)
	l := logging.NewLogger(prefix, cores...)
	f.loggers[config.LoggerName] = logWrapper{
		logger:       l,
		displayLevel: consoleCore.AtomicLevel,
		logLevel:     fileLevel,
	}
	return l, nil
}

func (f *LogFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	config := f.config
	config.LoggerName = name
	return f.makeLogger(config)
}

func (f *LogFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, lw := range f.loggers {
		lw.logger.Stop()
	}
	f.loggers = nil
}

type discardWriteCloser struct {
	io.Writer
}

func newDiscardWriteCloser() *discardWriteCloser {
	return &discardWriteCloser{io.Discard}
}

// Close implements the io.Closer interface.
func (*discardWriteCloser) Close() error {
	return nil
}

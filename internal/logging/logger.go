package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/pedometer/pkg"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName   string
	LogToConsole  bool
	LogLevel      string
	LogFormatJSON bool
	// Console defaults to os.Stderr. Stdout carries command output and the MCP stream.
	Console *os.File
}

func Setup(params LoggerSetupParams) {
	console := params.Console
	if console == nil {
		console = os.Stderr
	}

	logrus.SetFormatter(newFormatter(params.LogFormatJSON, console))
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		if params.LogToConsole {
			logrus.SetOutput(console)
		} else {
			logrus.SetOutput(io.Discard)
		}
		return
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:  params.LogFileName,
		MaxSize:   50,    // megabytes
		LocalTime: false, // false -> use UTC
		Compress:  true,  // disabled by default
	}

	if params.LogToConsole {
		logrus.SetOutput(
			pkg.NewCombinedWriter(console, lumberJackLogger),
		)
	} else {
		logrus.SetOutput(lumberJackLogger)
	}
}

func newFormatter(formatJSON bool, console *os.File) logrus.Formatter {
	if formatJSON {
		return &logrus.JSONFormatter{}
	}
	fd := console.Fd()
	return &logrus.TextFormatter{
		ForceColors:   isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		FullTimestamp: true,
	}
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	// InfoLogger oddiy xabarlar uchun
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	// ErrorLogger xatolar uchun
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	initOnce sync.Once
)

// Init sets the process-wide log flags so plain log.Printf lines from
// components match InfoLogger output.
func Init() {
	initOnce.Do(func() {
		log.SetFlags(log.Ldate | log.Ltime)
		log.SetOutput(os.Stdout)
	})
}

// SetOutput redirects both loggers, mainly for tests.
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
	log.SetOutput(w)
}

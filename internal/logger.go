package internal

import (
	"context"
	"fmt"
	"log"
	"paywindow/services"
	"time"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

// FeatureLogMessage is the document written to the payment log collection.
type FeatureLogMessage struct {
	Time     time.Time `json:"time" bson:"time"`
	Level    string    `json:"level" bson:"level"`
	Category string    `json:"category" bson:"category"`
	Text     string    `json:"text" bson:"text"`
}

func (m *FeatureLogMessage) DataType() string {
	return "log"
}

// Logger writes to the standard logger and, when a database is set, to the payment log.
type Logger struct {
	category string
	debug    bool
	database services.Database
}

func NewLogger(category string, debug bool, database services.Database) *Logger {
	return &Logger{
		category: category,
		debug:    debug,
		database: database,
	}
}

func (l *Logger) Debug(text string) {
	if l.debug {
		l.write(levelDebug, text)
	}
}

func (l *Logger) Info(text string) {
	l.write(levelInfo, text)
}

func (l *Logger) Warn(text string) {
	l.write(levelWarn, text)
}

func (l *Logger) Error(text string, err error) {
	if err != nil {
		text = fmt.Sprintf("%s: %v", text, err)
	}
	l.write(levelError, text)
}

func (l *Logger) write(level, text string) {
	log.Printf("%s: [%s] %s", l.category, level, text)
	// debug lines stay local
	if l.database == nil || level == levelDebug {
		return
	}
	message := &FeatureLogMessage{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Text:     text,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.database.WriteLogMessage(ctx, message); err != nil {
		log.Printf("%s: [%s] write log message: %v", l.category, levelError, err)
	}
}

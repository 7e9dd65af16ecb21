package apiclient

import (
	"github.com/sirupsen/logrus"
)

// Notifier surfaces human-facing messages.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n LogNotifier) Success(title, message string) {
	n.Logger.WithField("title", title).Info(message)
}

func (n LogNotifier) Error(title, message string) {
	n.Logger.WithField("title", title).Error(message)
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string)   {}

package mocks

import (
	"dashboard.app/internal/ports"
	"github.com/stretchr/testify/mock"
)

// Logger is a mock of ports.Logger. Fields are passed to Called as one slice,
// so expectations take two arguments: the message and the fields.
type Logger struct {
	mock.Mock
}

func (m *Logger) Debug(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Info(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Warn(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Error(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

// NewLogger creates a Logger mock and asserts its expectations on cleanup
func NewLogger(t mock.TestingT) *Logger {
	m := &Logger{}
	register(t, &m.Mock)
	return m
}

// NewPermissiveLogger creates a Logger mock that accepts every call
func NewPermissiveLogger(t mock.TestingT) *Logger {
	m := NewLogger(t)
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(level, mock.Anything, mock.Anything).Maybe()
	}
	return m
}

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	t.Run("prints tiers with default configuration", func(t *testing.T) {
		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

		code := run(context.Background(), []string{"tiers"}, stdout, stderr)

		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), "seconds-short")
	})

	t.Run("fails on invalid configuration", func(t *testing.T) {
		t.Setenv("CACHE_TYPE", "etcd")
		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

		code := run(context.Background(), []string{"tiers"}, stdout, stderr)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "CACHE_TYPE")
	})

	t.Run("reports unknown commands", func(t *testing.T) {
		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

		code := run(context.Background(), []string{"flush-everything"}, stdout, stderr)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "unknown command")
	})
}

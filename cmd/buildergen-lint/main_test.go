package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-buildergen/pkg/config"
)

const lintSource = "package shop\n\n" +
	"//buildergen:generate\n" +
	"type User struct {\n" +
	"\tName string\n" +
	"\tTags []string `builder:\"each\"`\n" +
	"}\n\n" +
	"type Order struct {\n" +
	"\tID   int\n" +
	"\tNote *string `builder:\"each=AddNote\"`\n" +
	"}\n\n" +
	"type Plain struct {\n" +
	"\tBuild func()\n" +
	"}\n\n" +
	"type Item struct {\n" +
	"\tSKUs []string `builder:\"each=AddSKU\"`\n" +
	"}\n"

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLintFile(t *testing.T) {
	path := writeSource(t, lintSource)

	violations, err := lintFile(context.Background(), config.Default(), path)
	require.NoError(t, err)
	require.Len(t, violations, 2)

	require.Equal(t, "error", violations[0].severity)
	require.Equal(t, "User > line 6", violations[0].location)
	require.Contains(t, violations[0].message, "Invalid builder directive")

	require.Equal(t, "warning", violations[1].severity)
	require.Equal(t, "Order > line 11", violations[1].location)
	require.Contains(t, violations[1].message, "AddNote")
}

func TestRunExitCodes(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), []string{writeSource(t, lintSource)}, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "error: User > line 6")

	clean := "package shop\n\ntype Order struct {\n\tNote *string `builder:\"each=AddNote\"`\n}\n"
	stderr.Reset()
	require.Equal(t, 0, run(context.Background(), []string{writeSource(t, clean)}, &stderr))
	require.Contains(t, stderr.String(), "warning: Order > line 4")

	stderr.Reset()
	require.Equal(t, 1, run(context.Background(), []string{"-strict", writeSource(t, clean)}, &stderr))

	stderr.Reset()
	require.Equal(t, 1, run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.go")}, &stderr))
	require.Contains(t, stderr.String(), "lint ")

	require.Equal(t, 0, run(context.Background(), []string{"-h"}, &stderr))
	require.Equal(t, 2, run(context.Background(), []string{"-bogus"}, &stderr))
}

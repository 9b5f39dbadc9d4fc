package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnoseCommand(t *testing.T) {
	catalogPath, templatesDir, framePath := scanFixtures(t)

	gtPath := filepath.Join(t.TempDir(), "expected.yaml")
	gt := "items:\n  - wrench\n  - medkit\n"
	require.NoError(t, os.WriteFile(gtPath, []byte(gt), 0o600))

	exportPath := filepath.Join(t.TempDir(), "report.json")
	output, err := executeCommandAndCaptureOutput(t, rootCmd, []string{
		"diagnose", framePath,
		"--catalog", catalogPath,
		"--templates-dir", templatesDir,
		"--no-ocr",
		"--ground-truth", gtPath,
		"--export", exportPath,
	})
	require.NoError(t, err)

	// The wrench is in the frame, the medkit is not.
	assert.Contains(t, output, "medkit")
	assert.Contains(t, output, "False negatives")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "falseNegatives")
}

func TestDiagnoseCommand_RequiresGroundTruth(t *testing.T) {
	catalogPath, templatesDir, framePath := scanFixtures(t)
	_, err := executeCommandAndCaptureOutput(t, rootCmd, []string{
		"diagnose", framePath,
		"--catalog", catalogPath,
		"--templates-dir", templatesDir,
		"--ground-truth", "",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ground-truth")
}

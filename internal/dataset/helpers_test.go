package dataset

import (
	"os"
	"testing"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testClassifier(t *testing.T) *domain.Classifier {
	t.Helper()
	c, err := domain.NewClassifier([]domain.ClassificationRange{
		{Lower: 0, Upper: 50, Label: "Good"},
		{Lower: 50, Upper: 100, Label: "Moderate"},
	})
	require.NoError(t, err)
	return c
}

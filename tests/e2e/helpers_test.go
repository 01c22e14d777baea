//go:build e2e

package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/feedback-metrics/internal/analyzer"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func newAnalyzer(url string) (*analyzer.Client, error) {
	return analyzer.New(analyzer.WithURL(url), analyzer.WithTimeout(5*time.Second))
}

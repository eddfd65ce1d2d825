package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest/internal/domain"
)

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer

	err := WritePDF(&buf, []domain.Report{sampleReport(), sampleReport()})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWritePDF_Empty(t *testing.T) {
	var buf bytes.Buffer

	err := WritePDF(&buf, nil)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

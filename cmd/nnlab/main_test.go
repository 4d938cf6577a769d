package main

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nnlab/internal/data"
)

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"version"}, &out))
	assert.Equal(t, "nnlab "+version+"\n", out.String())
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "Commands:")

	out.Reset()
	require.Error(t, run(context.Background(), []string{"serve"}, &out))
	assert.Contains(t, out.String(), "Commands:")
}

func TestRun_Forward(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"forward", "-seed", "3"}, &out))
	assert.Contains(t, out.String(), "Max |difference|")
	assert.NotContains(t, out.String(), "Matrix(")

	// 8 samples of 4 hidden units and 2×8 outputs, each printed with 5 decimals.
	values := regexp.MustCompile(`-?\d+\.\d{5}`).FindAllString(out.String(), -1)
	assert.GreaterOrEqual(t, len(values), 8*4+2*8)
}

func TestFormatMatrix(t *testing.T) {
	m, err := data.FromRows([][]float32{{0.5, 1}, {2, -3}})
	require.NoError(t, err)

	s := formatMatrix(m)
	assert.Contains(t, s, "0.50000")
	assert.Contains(t, s, "-3.00000")
	assert.Equal(t, 1, strings.Count(s, "\n"), "one line per row")
}

func TestRun_Regress(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"regress"}, &out))
	assert.Contains(t, out.String(), "R² train")
}

func TestRun_TrainShort(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"train", "-epochs", "2"}, &out))
	assert.Contains(t, out.String(), "Epochs: 2")
}

func TestRun_BadDevice(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"forward", "-device", "tpu"}, &out)
	require.Error(t, err)
}

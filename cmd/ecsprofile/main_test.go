package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCompletes(t *testing.T) {
	require.NoError(t, run(2, 3, 10))
}

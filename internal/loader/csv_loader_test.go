package loader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classyard/timetable-engine/internal/loader"
)

func TestReadCSV_ParsesBothTables(t *testing.T) {
	input := "availability,10,Mon,1,4\ndemand,1,100,3\n"
	log := zap.NewNop().Sugar()

	avail, demand, err := loader.ReadCSV(strings.NewReader(input), log)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	require.Equal(t, 10, avail[0].TeacherID)
	require.Len(t, demand, 1)
	require.Equal(t, 3, demand[0].RequiredBlocks)
}

func TestReadCSV_SkipsMalformedRowsWithoutAborting(t *testing.T) {
	input := "availability,notanumber,Mon,1,4\ndemand,1,100,3\n"
	log := zap.NewNop().Sugar()

	avail, demand, err := loader.ReadCSV(strings.NewReader(input), log)
	require.NoError(t, err)
	require.Empty(t, avail)
	require.Len(t, demand, 1)
}

func TestReadCSV_UnrecognizedTagIsLoggedAndIgnored(t *testing.T) {
	input := "mystery,1,2,3\ndemand,1,100,3\n"
	log := zap.NewNop().Sugar()

	_, demand, err := loader.ReadCSV(strings.NewReader(input), log)
	require.NoError(t, err)
	require.Len(t, demand, 1)
}

package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/logging"
)

func TestNew_ProductionProfile(t *testing.T) {
	log, err := logging.New(false)
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNew_DebugProfile(t *testing.T) {
	log, err := logging.New(true)
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewNop_DiscardsEverything(t *testing.T) {
	log := logging.NewNop()
	require.NotNil(t, log)
	log.Info("should not panic")
}

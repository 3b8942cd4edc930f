package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunHealthChecks(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("unreachable") }

	report := RunHealthChecks(context.Background(), map[string]HealthCheck{"redis": up, "mongo": up})
	assert.Equal(t, StatusUp, report.Status)
	assert.Equal(t, map[string]string{"redis": StatusUp, "mongo": StatusUp}, report.Checks)

	report = RunHealthChecks(context.Background(), map[string]HealthCheck{"redis": up, "mongo": down})
	assert.Equal(t, StatusDown, report.Status)
	assert.Equal(t, StatusDown, report.Checks["mongo"])

	report = RunHealthChecks(context.Background(), nil)
	assert.Equal(t, StatusUp, report.Status)
	assert.Empty(t, report.Checks)
}

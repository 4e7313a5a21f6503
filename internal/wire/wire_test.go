package wire

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/packtrack/internal/config"
	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/db"
	"github.com/example/packtrack/internal/ports/primary"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"remote", config.Config{Backend: config.BackendRemote, Remote: config.RemoteConfig{DSN: db.MemoryDSN}}, "remote"},
		{"local", config.Config{Backend: config.BackendLocal, Local: config.LocalConfig{InMemory: true}}, "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Codes.MaxAttempts = 8
			s, err := Build(&tt.cfg, zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.BackendName())

			ctx := ctxutil.WithActor(context.Background(), "ayse")
			dept, err := s.Departments.Create(ctx, "Depo")
			require.NoError(t, err)
			box, err := s.Boxes.Create(ctx, primary.CreateBoxRequest{Name: "Koli-1", DepartmentID: dept.ID})
			require.NoError(t, err)

			detail, err := s.Boxes.GetByCode(ctx, box.Code)
			require.NoError(t, err)
			assert.Equal(t, "Depo", detail.Department.Name)

			require.NoError(t, s.Close(context.Background()))
		})
	}
}

func TestBuild_UnknownBackend(t *testing.T) {
	_, err := Build(&config.Config{Backend: "postgres"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

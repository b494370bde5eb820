package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/config"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("ESCROW_DATADIR", datadir)
		t.Setenv("ESCROW_OWNER_ID", "owner")
		t.Setenv("ESCROW_SOLVERS", "solver1, solver2,,")

		err := config.InitConfig()
		require.NoError(t, err)

		require.Equal(t, "owner", config.GetString(config.OwnerIdKey))
		require.Equal(
			t, []string{"solver1", "solver2"},
			config.GetStringSlice(config.SolversKey),
		)
		require.Equal(t, "badger", config.GetString(config.DBTypeKey))
		require.Equal(t, 9945, config.GetInt(config.GRPCListeningPortKey))
		require.Equal(t, 9000, config.GetInt(config.HTTPListeningPortKey))
		require.Equal(t, 10*time.Second, config.GetDuration(config.RelayIntervalKey))
		require.Empty(t, config.GetStringSlice(config.CORSAllowedOriginsKey))
		require.DirExists(t, config.GetDbDir())

		secret := config.GetAuthSecret()
		require.Len(t, secret, 64)
		stored, err := os.ReadFile(filepath.Join(datadir, config.AuthSecretFile))
		require.NoError(t, err)
		require.Equal(t, secret, stored)

		// A restart must reuse the persisted secret.
		err = config.InitConfig()
		require.NoError(t, err)
		require.Equal(t, secret, config.GetAuthSecret())
	})

	t.Run("with auth secret", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("ESCROW_DATADIR", datadir)
		t.Setenv("ESCROW_OWNER_ID", "owner")
		t.Setenv("ESCROW_DB_TYPE", "inmemory")
		t.Setenv("ESCROW_AUTH_SECRET", "supersecret")

		err := config.InitConfig()
		require.NoError(t, err)

		require.Equal(t, []byte("supersecret"), config.GetAuthSecret())
		require.NoFileExists(t, filepath.Join(datadir, config.AuthSecretFile))
		require.NoDirExists(t, config.GetDbDir())
	})
}

func TestFailingInitConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing owner",
			env:  map[string]string{},
		},
		{
			name: "unsupported db type",
			env: map[string]string{
				"ESCROW_OWNER_ID": "owner",
				"ESCROW_DB_TYPE":  "postgres",
			},
		},
		{
			name: "unsupported transfer sink",
			env: map[string]string{
				"ESCROW_OWNER_ID":      "owner",
				"ESCROW_TRANSFER_SINK": "smtp",
			},
		},
		{
			name: "webhook sink without url",
			env: map[string]string{
				"ESCROW_OWNER_ID":      "owner",
				"ESCROW_TRANSFER_SINK": "webhook",
			},
		},
		{
			name: "kafka sink without brokers",
			env: map[string]string{
				"ESCROW_OWNER_ID":      "owner",
				"ESCROW_TRANSFER_SINK": "kafka",
			},
		},
		{
			name: "invalid relay interval",
			env: map[string]string{
				"ESCROW_OWNER_ID":       "owner",
				"ESCROW_RELAY_INTERVAL": "0",
			},
		},
		{
			name: "invalid relay rate limit",
			env: map[string]string{
				"ESCROW_OWNER_ID":         "owner",
				"ESCROW_RELAY_RATE_LIMIT": "-1",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ESCROW_DATADIR", t.TempDir())
			t.Setenv("ESCROW_OWNER_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := config.InitConfig()
			require.Error(t, err)
		})
	}
}

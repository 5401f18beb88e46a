package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{name: "help", args: []string{"serve", "--help"}, want: "Start the Audio Notes API server"},
		{name: "help mentions reminder workers", args: []string{"serve", "--help"}, want: "reminder workers"},
		{name: "invalid port", args: []string{"serve", "--port", "invalid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, output, tt.want)
		})
	}
}

func TestServeCommandFlags(t *testing.T) {
	serve, _, err := NewRootCmd().Find([]string{"serve"})
	require.NoError(t, err)

	for _, name := range []string{"port", "host"} {
		assert.NotNil(t, serve.Flags().Lookup(name), name)
	}
}

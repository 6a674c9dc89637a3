package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/observability"
)

func TestServeHandler(t *testing.T) {
	tests := []struct {
		name  string
		redis bool
	}{
		{name: "memory"},
		{name: "redis", redis: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts storageOptions
			var mr *miniredis.Miniredis
			if tt.redis {
				mr = miniredis.RunT(t)
				opts.RedisAddr = mr.Addr()
			}
			st, err := openStorage(opts)
			require.NoError(t, err)
			defer st.Close()
			srv := httptest.NewServer(newServeHandler(st, observability.NewMetrics()))
			defer srv.Close()

			for i := 0; i < 2; i++ {
				resp, err := http.Post(srv.URL+"/compile", "application/yaml", strings.NewReader(modelYAML))
				require.NoError(t, err)
				var body struct {
					Model   string `json:"model"`
					Size    int    `json:"size"`
					Changed bool   `json:"changed"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				resp.Body.Close()
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, "lumped", body.Model)
				assert.Equal(t, 3, body.Size)
				assert.Equal(t, i == 0, body.Changed)
			}

			resp, err := http.Get(srv.URL + "/layouts/lumped")
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			if tt.redis {
				assert.True(t, mr.Exists("galvani:layout:lumped"))
			}

			resp, err = http.Get(srv.URL + "/metrics")
			require.NoError(t, err)
			defer resp.Body.Close()
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(data), `galvani_compiles_total{model="lumped",result="ok"} 2`)
		})
	}
}

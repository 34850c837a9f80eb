package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesleylibanio/fretesopipa/internal/config"
)

func newTestClient(t *testing.T, serverURL string, retries int) *Client {
	t.Helper()
	return NewClient(config.SheetsConfig{
		APIURL:       serverURL,
		Token:        "secret",
		FetchRetries: retries,
	}, zerolog.Nop())
}

func TestFetchParsesCollections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		assert.Equal(t, "read", r.URL.Query().Get("action"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Clientes":   []map[string]any{{"id": "c1", "nome": "Alfa"}},
			"Motoristas": []map[string]any{{"id": "d1", "nome": "João"}},
			"Veiculos":   []map[string]any{{"id": "v1", "placa": "ABC-1234"}},
			"Locais":     []map[string]any{{"id": "l1", "nome": "Pedreira"}},
			"Materiais":  []map[string]any{{"id": "m1", "nome": "Brita"}},
			"Fretes":     []map[string]any{{"id": "r1", "local_origem_id": "l1", "local_destino_id": "l2", "valor_tonelada": 150}},
			"Viagens":    []map[string]any{{"id": "t1", "nota_fiscal": "1", "quantidade_toneladas": "2,5"}},
			"Logins":     []map[string]any{{"id": "d1", "username": "joao", "senha": "123", "role": "driver"}},
			"Metadata":   map[string]any{"recentIds": map[string][]string{"customers": {"c1"}}},
		})
	}))
	defer server.Close()

	snap, err := newTestClient(t, server.URL, 0).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Customers, 1)
	assert.Len(t, snap.Trips, 1)
	assert.Equal(t, 2.5, snap.Trips[0].QtyTons)
	assert.False(t, snap.Trips[0].CreatedAt.IsZero())
	assert.Equal(t, []string{"c1"}, snap.RecentIDs["customers"])
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 2).Fetch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFetchExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 2).Fetch(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFetchServerErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"token inválido"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 0).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token inválido")
}

func TestPushAcceptsSuccessMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "secret", payload["token"])
		assert.Contains(t, payload, "Viagens")
		assert.Contains(t, payload, "Logins")
		_, _ = w.Write([]byte("OK: Success"))
	}))
	defer server.Close()

	err := newTestClient(t, server.URL, 0).Push(context.Background(), sampleSnapshot())
	assert.NoError(t, err)
}

func TestPushRejectsNonSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("quota exceeded"))
	}))
	defer server.Close()

	err := newTestClient(t, server.URL, 0).Push(context.Background(), sampleSnapshot())
	assert.Error(t, err)
}

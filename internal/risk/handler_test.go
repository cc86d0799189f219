package risk

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandler_Assess(t *testing.T) {
	t.Parallel()
	h := NewHandler(slog.Default(), NewOracle("test-secret"))
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/risk?payerId=p1&amount=100.00&currency=USD")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var body assessResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	expected := NewOracle("test-secret").Assess("p1", "100.00", "USD")
	require.Equal(t, expected.TxnID, body.TxnID)
	require.Equal(t, expected.RiskScore, body.RiskScore)
	require.Equal(t, string(expected.Decision), body.Decision)
}

func TestHandler_AssessMissingParams(t *testing.T) {
	t.Parallel()
	h := NewHandler(slog.Default(), NewOracle(""))
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/risk")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var body assessResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "UNKNOWN", body.PayerID)
	require.Equal(t, "0", body.Amount)
	require.Equal(t, "CAD", body.Currency)
}

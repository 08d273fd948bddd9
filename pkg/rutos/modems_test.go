package rutos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedModemsBody = `{
	"success": true,
	"data": [
		{
			"id": "3-1",
			"name": "Internal modem",
			"imei": "860000000000001",
			"operator": "TestNet",
			"ntype": "5G-NSA",
			"rssi": -52,
			"rsrp": -87,
			"sim_count": 2,
			"active_sim": 1,
			"simstate": "inserted",
			"data_conn_state": "Connected",
			"temperature": 38
		},
		{
			"id": "1-1",
			"offline": "1",
			"name": "External modem",
			"sim_count": 1
		}
	]
}`

func newModemsServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Modems, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			fmt.Fprint(w, loginSuccessBody("abc123", 300))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewModems(newTestAuth(server.URL)), server
}

func TestGetStatus_MixedEntriesPreserveOrder(t *testing.T) {
	modems, _ := newModemsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/modems/status", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, mixedModemsBody)
	})

	resp, err := modems.GetStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	entries := *resp.Data
	require.Len(t, entries, 2)

	assert.True(t, entries[0].IsOnline())
	assert.False(t, entries[1].IsOnline())
	assert.Equal(t, "3-1", entries[0].ID())
	assert.Equal(t, "1-1", entries[1].ID())

	require.NotNil(t, entries[0].Full)
	assert.Equal(t, "TestNet", entries[0].Full.Operator)
	require.NotNil(t, entries[0].Full.Rssi)
	assert.Equal(t, -52, *entries[0].Full.Rssi)

	require.NotNil(t, entries[1].Offline)
	assert.Equal(t, "External modem", entries[1].Offline.Name)
	assert.Equal(t, 1, entries[1].Offline.SimCount)
}

func TestGetStatus_NAValuesScrubbed(t *testing.T) {
	modems, _ := newModemsServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "data": [{"id": "3-1", "operator": "N/A", "rssi": -60}]}`)
	})

	resp, err := modems.GetStatus(context.Background())
	require.NoError(t, err)
	entries := *resp.Data
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Full)
	assert.Empty(t, entries[0].Full.Operator)
}

func TestModemStatus_FilterHelpers(t *testing.T) {
	var entries []ModemStatus
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "a", "rssi": -60},
		{"id": "b", "offline": "1"},
		{"id": "c", "rssi": -70}
	]`), &entries))

	resp := &Response[[]ModemStatus]{Success: true, Data: &entries}

	online := OnlineModems(resp)
	require.Len(t, online, 2)
	assert.Equal(t, "a", online[0].ID)
	assert.Equal(t, "c", online[1].ID)

	offline := OfflineModems(resp)
	require.Len(t, offline, 1)
	assert.Equal(t, "b", offline[0].ID)
}

func TestModemStatus_FiltersOnUnsuccessfulResponse(t *testing.T) {
	assert.Nil(t, OnlineModems(nil))
	assert.Nil(t, OfflineModems(&Response[[]ModemStatus]{Success: false}))
}

func TestModemStatus_MarshalRoundTrip(t *testing.T) {
	var entry ModemStatus
	require.NoError(t, json.Unmarshal([]byte(`{"id": "b", "offline": "1", "name": "ext"}`), &entry))

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var again ModemStatus
	require.NoError(t, json.Unmarshal(data, &again))
	require.NotNil(t, again.Offline)
	assert.Equal(t, "b", again.Offline.ID)
}

func TestModemActions_HitExpectedEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		call     func(m *Modems) (*Response[ModemActionData], error)
		expected string
	}{
		{"reboot", func(m *Modems) (*Response[ModemActionData], error) {
			return m.Reboot(context.Background(), "3-1")
		}, "/modems/3-1/actions/reboot"},
		{"restart connection", func(m *Modems) (*Response[ModemActionData], error) {
			return m.RestartConnection(context.Background(), "3-1")
		}, "/modems/3-1/actions/restart_connection"},
		{"switch sim", func(m *Modems) (*Response[ModemActionData], error) {
			return m.SwitchSIM(context.Background(), "3-1")
		}, "/modems/3-1/actions/switch_sim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotMethod string
			modems, _ := newModemsServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotMethod = r.Method
				assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
				fmt.Fprint(w, `{"success": true}`)
			})

			resp, err := tt.call(modems)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.expected, gotPath)
			assert.Equal(t, http.MethodPost, gotMethod)
		})
	}
}

func TestUEStateDescription(t *testing.T) {
	assert.Equal(t, "Attached", UEStateDescription(1))
	assert.Equal(t, "No Service", UEStateDescription(8))
	assert.Equal(t, "Unknown UE state (42)", UEStateDescription(42))
}

func TestMobileStageDescription(t *testing.T) {
	assert.Equal(t, "Mobile connection setup is complete", MobileStageDescription(19))
	assert.Equal(t, "SIM failure", MobileStageDescription(2))
	assert.Equal(t, "Unknown mobile stage (99)", MobileStageDescription(99))
}
